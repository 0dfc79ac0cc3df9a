package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Desktop sends a notify-send notification (Linux). Missing binary is
// returned as an error and absorbed by the caller's best-effort send.
type Desktop struct{}

func NewDesktop(enabled bool) *Desktop {
	if !enabled {
		return nil
	}
	return &Desktop{}
}

func (d *Desktop) Send(ctx context.Context, title, text string) error {
	if d == nil {
		return errors.New("desktop notifications disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "notify-send", "-u", "critical", "-t", "30000", title, text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}

// Sound plays an alert sound, falling back to the terminal bell when no
// audio player is available.
type Sound struct {
	Path string
}

func NewSound(enabled bool) *Sound {
	if !enabled {
		return nil
	}
	return &Sound{Path: "/usr/share/sounds/freedesktop/stereo/complete.oga"}
}

func (s *Sound) Send(ctx context.Context, title, text string) error {
	if s == nil {
		return errors.New("sound disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "paplay", s.Path)
	if err := cmd.Run(); err != nil {
		// Terminal bell fallback
		fmt.Fprint(os.Stdout, "\a")
	}
	return nil
}
