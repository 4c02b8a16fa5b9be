package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"gonum.org/v1/plot"

	"oilpulse/internal/analysis"
	"oilpulse/internal/charts"
	"oilpulse/internal/config"
	"oilpulse/internal/dataset"
	apperrors "oilpulse/internal/errors"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Server serves the production dashboard over one immutable cleaned
// dataset. Every request recomputes its view from the shared read-only
// table, so concurrent sessions never interfere.
type Server struct {
	cfg    config.ServerConfig
	table  *dataset.Table
	fields []string
	logger *slog.Logger
	tmpl   *template.Template
}

// NewServer creates a dashboard server over a cleaned dataset
func NewServer(cfg config.ServerConfig, table *dataset.Table, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard template: %w", err)
	}

	return &Server{
		cfg:    cfg,
		table:  table,
		fields: table.UniqueStrings(dataset.ColFieldName),
		logger: logger.With("component", "dashboard"),
		tmpl:   tmpl,
	}, nil
}

// Routes returns the dashboard router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).
			Get("/summary", s.handleSummary)
		r.Get("/charts/{chart}.png", s.handleChart)
	})

	return r
}

// Run serves the dashboard until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "dashboard listening",
			"step", "dashboard", "addr", srv.Addr, "rows", s.table.NumRows())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleIndex renders the dashboard page with the unfiltered summary
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	summary := BuildSummary(s.table, s.fields)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, summary); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering dashboard page", "error", err)
	}
}

// handleSummary returns KPIs and insights for the requested filters
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filtered := filters.Apply(s.table)
	render.JSON(w, r, BuildSummary(filtered, s.fields))
}

// handleChart streams one chart rendered from the filtered rows
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.buildChart(chi.URLParam(r, "chart"), filters.Apply(s.table))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := charts.RenderPNG(p, charts.DefaultWidth, charts.DefaultHeight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// buildChart renders one of the dashboard chart types over a filtered view
func (s *Server) buildChart(name string, filtered *dataset.Table) (*plot.Plot, error) {
	switch name {
	case charts.ChartOilHistogram:
		return charts.OilHistogram(filtered)
	case charts.ChartPressureScatter:
		return charts.PressureScatter(filtered)
	case charts.ChartFieldBoxPlot:
		return charts.FieldBoxPlot(filtered)
	case charts.ChartCorrelationHeatmap:
		corr := analysis.Correlate(filtered)
		return charts.CorrelationHeatmap(corr.Labels, corr.Matrix)
	case charts.ChartTimeSeries:
		return charts.TimeSeries(filtered)
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart %q", name), nil)
	}
}

// writeError maps application errors onto HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		status = http.StatusBadRequest
	case apperrors.IsType(err, apperrors.ErrTypeNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
