package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var tmplFuncs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"round": func(f float64) int { return int(f + 0.5) },
	// 95 -> "1m 35s", for attempt rows
	"durMS": func(secs int) string {
		if secs <= 0 {
			return "0m 0s"
		}
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	},
	// 4500 -> "1h 15m", for module cards
	"durHM": func(secs int) string {
		h, m := secs/3600, (secs%3600)/60
		if h > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dm", m)
	},
	"scoreClass": func(v any) string { return scoreClass(toFloat(v)) },
	// unix timestamp -> "3h ago" / "2d ago"
	"ago": func(unix int64) string {
		if unix <= 0 {
			return "never"
		}
		d := time.Since(time.Unix(unix, 0))
		switch {
		case d < time.Hour:
			return "just now"
		case d < 24*time.Hour:
			return fmt.Sprintf("%dh ago", int(d.Hours()))
		default:
			return fmt.Sprintf("%dd ago", int(d.Hours()/24))
		}
	},
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func scoreClass(pct float64) string {
	switch {
	case pct >= 90:
		return "excellent"
	case pct >= 75:
		return "good"
	case pct >= 60:
		return "average"
	default:
		return "poor"
	}
}

func NewRenderer() (*Renderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	pages := map[string]*template.Template{}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(tmplFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := rd.pages[page]
	if !ok {
		log.Printf("render: unknown template %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

// Error renders the shared error page.
func (rd *Renderer) Error(w http.ResponseWriter, status int, msg string) {
	rd.Render(w, status, "error.html", map[string]any{"Title": "Error", "Message": msg})
}

// StaticHandler serves the embedded stylesheet and assets under /static/.
func StaticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(mustSub(staticFS, "static"))))
}

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
