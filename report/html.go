package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"habitat_watch/models"
)

// Buckets groups residences by the best status among their units:
// immediately available, request open or possible, and everything else
// (unavailable, failed, no data).
func Buckets(result *models.ScanResult) (immediate, requests, unavailable []models.ResidenceResult) {
	for _, rr := range result.Results {
		switch rr.BestStatus() {
		case models.StatusImmediate:
			immediate = append(immediate, rr)
		case models.StatusRequestOpen, models.StatusRequestPossible:
			requests = append(requests, rr)
		default:
			unavailable = append(unavailable, rr)
		}
	}
	return
}

type pageData struct {
	Title       string
	ScanTime    string
	Immediate   []card
	Requests    []card
	Unavailable []card
}

type card struct {
	Residence models.Residence
	Units     []models.UnitRecord
	URL       string
	Class     string
}

var statusBadges = map[models.Status]template.HTML{
	models.StatusImmediate:       `<span class="badge bg-success">Immediately available</span>`,
	models.StatusRequestOpen:     `<span class="badge bg-primary">Request open</span>`,
	models.StatusRequestPossible: `<span class="badge bg-warning text-dark">Request possible</span>`,
	models.StatusUnavailable:     `<span class="badge bg-secondary">Unavailable</span>`,
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"badge": func(s models.Status) template.HTML { return statusBadges[s] },
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} — Disponibilités</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css" rel="stylesheet">
    <style>
        body { background: #f4f6f9; }
        .card.border-success { border-width: 3px; }
        .hero { background: linear-gradient(135deg, #1a8754, #0d6efd); color: white; padding: 2rem 0; }
        .badge { font-size: 0.8rem; }
        .stats { font-size: 1.3rem; font-weight: 600; }
    </style>
</head>
<body>
    <div class="hero text-center">
        <div class="container">
            <h1>{{.Title}}</h1>
            <p class="lead">Disponibilités des résidences</p>
            <p>Dernier scan : <strong>{{.ScanTime}}</strong></p>
            <div class="row justify-content-center mt-3">
                <div class="col-auto stats"><span class="badge bg-success fs-6">{{len .Immediate}}</span> Dispo immédiate</div>
                <div class="col-auto stats"><span class="badge bg-primary fs-6">{{len .Requests}}</span> Demande ouverte</div>
                <div class="col-auto stats"><span class="badge bg-secondary fs-6">{{len .Unavailable}}</span> Indisponible</div>
            </div>
        </div>
    </div>

    <div class="container mt-4">
        {{if .Immediate}}<h2 class="text-success mb-3">Disponibilité immédiate</h2><div class="row">{{range .Immediate}}{{template "card" .}}{{end}}</div>{{end}}
        {{if .Requests}}<h2 class="text-primary mb-3 mt-4">Demande ouverte</h2><div class="row">{{range .Requests}}{{template "card" .}}{{end}}</div>{{end}}
        {{if .Unavailable}}<h2 class="text-secondary mb-3 mt-4">Indisponible</h2><div class="row">{{range .Unavailable}}{{template "card" .}}{{end}}</div>{{end}}
    </div>

    <footer class="text-center text-muted py-4">
        <small>Page générée automatiquement à chaque scan.</small>
    </footer>
</body>
</html>
{{define "card"}}
        <div class="col-md-6 col-lg-4 mb-4">
            <div class="card {{.Class}} h-100">
                <div class="card-body">
                    <h5 class="card-title">{{.Residence.Name}}</h5>
                    <p class="card-text text-muted">{{.Residence.City}} ({{.Residence.PostalCode}})</p>
                    <table class="table table-sm table-bordered">
                        <thead><tr><th>Type</th><th>Loyer</th><th>Surface</th><th>Statut</th></tr></thead>
                        <tbody>{{range .Units}}<tr><td>{{.UnitType}}</td><td>{{.Rent}}</td><td>{{.Surface}}</td><td>{{badge .Status}}</td></tr>{{end}}</tbody>
                    </table>
                    <a href="{{.URL}}" target="_blank" class="btn btn-sm btn-outline-primary">Voir la résidence</a>
                </div>
            </div>
        </div>
{{end}}`))

// RenderHTML produces the static availability page.
func RenderHTML(result *models.ScanResult, title string, scanTime time.Time, src func(id string) string) ([]byte, error) {
	immediate, requests, unavailable := Buckets(result)

	data := pageData{
		Title:       title,
		ScanTime:    scanTime.UTC().Format("02/01/2006 15:04 UTC"),
		Immediate:   cards(immediate, "border-success", src),
		Requests:    cards(requests, "border-primary", src),
		Unavailable: cards(unavailable, "border-secondary", src),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func cards(results []models.ResidenceResult, class string, src func(id string) string) []card {
	var out []card
	for _, rr := range results {
		out = append(out, card{
			Residence: rr.Residence,
			Units:     rr.Units,
			URL:       src(rr.Residence.ID),
			Class:     class,
		})
	}
	return out
}

// WriteHTML renders the page and writes it under dir as index.html.
func WriteHTML(result *models.ScanResult, title string, scanTime time.Time, src func(id string) string, dir string) ([]byte, error) {
	page, err := RenderHTML(result, title, scanTime, src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, page, 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return page, nil
}
