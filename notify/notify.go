package notify

import "context"

// Notifier delivers one formatted alert. Delivery failure is logged by
// callers, never fatal to a scan.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans out to every configured channel, returning the first error
// after attempting all of them.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
