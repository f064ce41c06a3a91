package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tsalign/tsplot/pkg/pipeline"
	"github.com/tsalign/tsplot/pkg/plot"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	config  string // plot configuration file
	markers bool   // draw median markers
	noCache bool   // disable the chart cache
}

// serveCommand creates the serve command, a local chart browser.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <statistics-files...>",
		Short: "Serve rendered charts over HTTP",
		Long: `Render all configured charts and serve them on a local HTTP server.

Charts are rendered once at startup. Use GET /refresh to re-read the
inputs and re-render without restarting the server.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "plot configuration file (TOML)")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "draw median markers")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the chart cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, inputs []string, opts *serveOpts) error {
	cfg, err := c.loadPlotConfig(opts.config)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	srv := &chartServer{
		cli:        c,
		runner:     runner,
		instanceID: uuid.NewString(),
		pipelineOptions: pipeline.Options{
			Inputs:  inputs,
			Config:  cfg,
			Markers: opts.markers,
			Logger:  c.Logger,
		},
	}
	if err := srv.refresh(ctx); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Serving %d charts on http://%s", len(srv.result.Load().Artifacts), opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// chartServer holds the rendered artifacts served over HTTP.
// refresh swaps the result atomically; every handler loads one snapshot
// and serves the whole request from it.
type chartServer struct {
	cli             *CLI
	runner          *pipeline.Runner
	instanceID      string
	pipelineOptions pipeline.Options
	result          atomic.Pointer[pipeline.Result]
}

// refresh re-runs the pipeline and swaps in the new result.
func (s *chartServer) refresh(ctx context.Context) error {
	result, err := s.runner.Execute(ctx, s.pipelineOptions)
	if err != nil {
		return err
	}
	s.result.Store(result)
	return nil
}

func (s *chartServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/charts/{name}", s.handleChart)
	r.Get("/api/charts", s.handleList)
	r.Get("/refresh", s.handleRefresh)

	return r
}

// logRequests logs each request with the shared CLI logger.
func (s *chartServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.cli.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// etag derives the entity tag of an artifact set. It changes when the
// server instance or the dataset changes.
func (s *chartServer) etag(result *pipeline.Result) string {
	return `"` + s.instanceID + "-" + result.DatasetHash + `"`
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>tsplot</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #fafafa; }
h1 { color: #333; }
figure { display: inline-block; margin: 1rem; background: white; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.2); }
figcaption { text-align: center; color: #666; margin-top: .5rem; }
</style>
</head>
<body>
<h1>tsplot &mdash; {{.Files}} statistics files</h1>
{{range .Charts}}<figure><img src="/charts/{{.}}" alt="{{.}}"><figcaption>{{.}}</figcaption></figure>
{{end}}
</body>
</html>
`))

func (s *chartServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	result := s.result.Load()
	charts := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		// PNG duplicates of an SVG chart only clutter the index.
		if strings.HasSuffix(name, "."+plot.FormatSVG) || !hasSVGSibling(result.Artifacts, name) {
			charts = append(charts, name)
		}
	}
	sort.Strings(charts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]any{
		"Files":  result.Stats.FileCount,
		"Charts": charts,
	})
	if err != nil {
		s.cli.Logger.Warn("render index", "err", err)
	}
}

// hasSVGSibling reports whether the artifact set contains an SVG rendering
// of the same chart name.
func hasSVGSibling(artifacts map[string][]byte, name string) bool {
	base := strings.TrimSuffix(name, "."+plot.FormatPNG)
	if base == name {
		return false
	}
	_, ok := artifacts[base+"."+plot.FormatSVG]
	return ok
}

func (s *chartServer) handleChart(w http.ResponseWriter, r *http.Request) {
	result := s.result.Load()
	name := chi.URLParam(r, "name")
	data, ok := result.Artifacts[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	etag := s.etag(result)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	switch {
	case strings.HasSuffix(name, "."+plot.FormatSVG):
		w.Header().Set("Content-Type", "image/svg+xml")
	case strings.HasSuffix(name, "."+plot.FormatPNG):
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("ETag", etag)
	w.Write(data)
}

func (s *chartServer) handleList(w http.ResponseWriter, r *http.Request) {
	result := s.result.Load()
	names := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"dataset": result.DatasetHash,
		"files":   result.Stats.FileCount,
		"charts":  names,
	})
}

func (s *chartServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.refresh(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("refresh failed: %v", err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
