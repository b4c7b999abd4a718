// Package dashboard serves the interactive persona dashboard over
// HTTP: KPI tiles, a donut of persona share, a radar of averaged
// scores, and a risk scatter, all computed from the filtered view.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/marlowe-io/persona/internal/engine"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

// Server exposes the classified dataset over HTTP. Filter changes only
// re-run the cheap filter stage; classification happens once per
// dataset load.
type Server struct {
	pipeline *engine.Pipeline
	source   string
	addr     string
}

// NewServer creates a dashboard server for an already-run pipeline.
func NewServer(pipeline *engine.Pipeline, source, addr string) *Server {
	return &Server{
		pipeline: pipeline,
		source:   source,
		addr:     addr,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/charts", s.handleCharts)
	r.Get("/api/kpis", s.handleKPIs)
	r.Get("/api/distribution", s.handleDistribution)
	r.Get("/api/records", s.handleRecords)
	r.Post("/api/upload", s.handleUpload)

	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Dashboard listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// filteredView resolves the request's filter criteria against the
// current pipeline result.
func (s *Server) filteredView(r *http.Request) ([]model.Record, view.Criteria, error) {
	result := s.pipeline.Current()
	if result == nil {
		return nil, view.Criteria{}, fmt.Errorf("no dataset loaded")
	}

	criteria := view.AllCriteria(result.Records)

	q := r.URL.Query()
	if raw := q.Get("personas"); raw != "" {
		selected := make(map[model.Persona]bool, 4)
		for _, name := range strings.Split(raw, ",") {
			p, ok := model.ParsePersona(strings.TrimSpace(name))
			if !ok {
				return nil, view.Criteria{}, fmt.Errorf("unknown persona %q", name)
			}
			selected[p] = true
		}
		criteria.Personas = selected
	}
	if raw := q.Get("min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, view.Criteria{}, fmt.Errorf("invalid min %q", raw)
		}
		criteria.MinEngagement = v
	}
	if raw := q.Get("max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, view.Criteria{}, fmt.Errorf("invalid max %q", raw)
		}
		criteria.MaxEngagement = v
	}

	return view.Filter(result.Records, criteria), criteria, nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Customer Persona Intelligence Dashboard</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
.tiles { display: flex; gap: 1rem; margin-bottom: 2rem; }
.tile { border: 1px solid #ccc; border-radius: 8px; padding: 1rem 2rem; text-align: center; }
.tile .value { font-size: 1.8rem; font-weight: bold; color: #1f77b4; }
.tile .label { color: #666; }
.personas span { display: inline-block; margin-right: 1rem; font-weight: bold; }
</style>
</head>
<body>
<h1>Customer Persona Intelligence Dashboard</h1>
<p>Source: {{.Source}} ({{.Rows}} rows, q75 {{printf "%.4f" .Q75}}, median {{printf "%.4f" .Median}})</p>
<div class="tiles">
  <div class="tile"><div class="value">{{.KPIs.TotalCustomers}}</div><div class="label">Total Customers</div></div>
  <div class="tile"><div class="value">{{.KPIs.ActivePersonas}}</div><div class="label">Active Personas</div></div>
  <div class="tile"><div class="value">{{printf "%.1f" .KPIs.HighEngagementPct}}%</div><div class="label">High Engagement</div></div>
  <div class="tile"><div class="value">{{printf "%.1f" .KPIs.AtRiskPct}}%</div><div class="label">At Risk</div></div>
</div>
<div class="personas">
{{range .Shares}}<span style="color: {{.Persona.Color}}">{{.Persona}}: {{.Count}} ({{printf "%.1f" .Pct}}%)</span>{{end}}
</div>
<p><a href="/charts{{.Query}}">Charts</a> | <a href="/api/records{{.Query}}">Records JSON</a> | <a href="/api/kpis{{.Query}}">KPIs JSON</a></p>
<p>Filter with query parameters: <code>?personas=Highly Engaged Loyalist,Moderate Potential&amp;min=1.5&amp;max=9</code></p>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	filtered, _, err := s.filteredView(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result := s.pipeline.Current()

	query := ""
	if r.URL.RawQuery != "" {
		query = "?" + r.URL.RawQuery
	}

	data := struct {
		Source string
		Query  string
		Shares []view.Share
		KPIs   view.KPIs
		Rows   int
		Q75    float64
		Median float64
	}{
		Source: s.source,
		Query:  query,
		Shares: view.Distribution(filtered),
		KPIs:   view.ComputeKPIs(filtered),
		Rows:   len(result.Records),
		Q75:    result.Thresholds.Q75,
		Median: result.Thresholds.Median,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("Failed to render index", "error", err)
	}
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	filtered, _, err := s.filteredView(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderCharts(w, filtered); err != nil {
		slog.Error("Failed to render charts", "error", err)
	}
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	filtered, _, err := s.filteredView(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, view.ComputeKPIs(filtered))
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	filtered, _, err := s.filteredView(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, view.Distribution(filtered))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	filtered, _, err := s.filteredView(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, filtered)
}

// handleUpload replaces the served dataset with a CSV posted as the
// request body. The new dataset is classified immediately and every
// later view reads from it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	result, err := s.pipeline.RunCSV(r.Context(), r.Body, "upload")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Dataset uploaded", "rows", len(result.Records))
	writeJSON(w, view.ComputeKPIs(result.Records))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
