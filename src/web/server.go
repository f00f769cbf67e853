// Package web serves the population dashboard: the interactive page, a JSON API over the same chart
// specifications, and static SVG/PNG exports.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iafilius/StatePopulationDashboard/src/analysis"
	"github.com/iafilius/StatePopulationDashboard/src/config"
	"github.com/iafilius/StatePopulationDashboard/src/dataset"
	"github.com/iafilius/StatePopulationDashboard/src/logging"
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

const shutdownTimeout = 10 * time.Second

// Options tune the HTTP layer.
type Options struct {
	AssetsHost  string
	CacheTTL    time.Duration
	CORSOrigins []string
}

// OptionsFromConfig picks the web settings out of the full config.
func OptionsFromConfig(c config.Config) Options {
	return Options{AssetsHost: c.AssetsHost, CacheTTL: c.CacheTTL, CORSOrigins: c.CORSOrigins}
}

// Server answers dashboard requests. Handlers only read the dataset, so requests are independent.
type Server struct {
	ds     *dataset.Dataset
	table  []dataset.Row
	bar    analysis.BarSpec
	opts   Options
	cache  *renderCache
	router *mux.Router
}

// New builds the server and its routes for ds.
func New(ds *dataset.Dataset, o Options) *Server {
	if o.AssetsHost == "" {
		o.AssetsHost = config.DefaultAssetsHost
	}
	s := &Server{
		ds:    ds,
		table: ds.Table(),
		opts:  o,
		cache: newRenderCache(o.CacheTTL),
	}
	s.bar = analysis.BuildBar(s.table)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	// access logging outermost so recovered panics still get their 500 line
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/export/bar.{format:svg|png}", s.handleExportBar).Methods(http.MethodGet)
	r.HandleFunc("/export/pie.{format:svg|png}", s.handleExportPie).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(newCORS(s.opts.CORSOrigins).Handler)
	api.HandleFunc("/states", s.handleStates).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/states/{state}", s.handleState).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bar", s.handleBar).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/pie", s.handlePie).Methods(http.MethodGet, http.MethodOptions)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	serveErr := make(chan error, 1)
	go func() {
		logging.Infof("dashboard listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Infof("shutting down dashboard")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// selection resolves ?state= through the click handler; unknown states return ErrUnknownState.
func (s *Server) selection(r *http.Request) (analysis.PieSpec, string, error) {
	label := strings.TrimSpace(r.URL.Query().Get("state"))
	spec, err := analysis.Select(s.ds, analysis.SelectionFromLabel(label))
	return spec, label, err
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	spec, label, err := s.selection(r)
	notice := ""
	if err != nil {
		logging.FromContext(r.Context()).Warnf("dashboard: %v", err)
		notice = fmt.Sprintf("No data for %q. Click a state in the bar chart.", label)
		spec = analysis.Placeholder()
	}
	build := func() (cachedBody, error) {
		b, err := dashboardPage(s.bar, spec, notice, s.opts.AssetsHost)
		if err != nil {
			return cachedBody{}, err
		}
		return cachedBody{contentType: "text/html; charset=utf-8", body: b}, nil
	}
	var (
		body cachedBody
		berr error
	)
	if notice != "" {
		// arbitrary unknown labels are not cached
		body, berr = build()
	} else {
		body, _, berr = s.cache.getOrRender(cacheKey("page", "html", spec.State), build)
	}
	if berr != nil {
		logging.FromContext(r.Context()).Errorf("dashboard: %v", berr)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeBody(w, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "states": s.ds.Len()})
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["state"]
	rec, ok := s.ds.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%v: %q", analysis.ErrUnknownState, name))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleBar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bar)
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	spec, _, err := s.selection(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleExportBar(w http.ResponseWriter, r *http.Request) {
	f, err := render.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body, _, err := s.cache.getOrRender(cacheKey("bar", f), func() (cachedBody, error) {
		var buf bytes.Buffer
		if err := render.Bar(s.bar, f, &buf); err != nil {
			return cachedBody{}, err
		}
		return cachedBody{contentType: f.ContentType(), body: buf.Bytes()}, nil
	})
	if err != nil {
		logging.FromContext(r.Context()).Errorf("export bar: %v", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeBody(w, body)
}

func (s *Server) handleExportPie(w http.ResponseWriter, r *http.Request) {
	f, err := render.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, _, err := s.selection(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	body, _, err := s.cache.getOrRender(cacheKey("pie", f, spec.State), func() (cachedBody, error) {
		var buf bytes.Buffer
		if err := render.Pie(spec, f, &buf); err != nil {
			return cachedBody{}, err
		}
		return cachedBody{contentType: f.ContentType(), body: buf.Bytes()}, nil
	})
	if err != nil {
		logging.FromContext(r.Context()).Errorf("export pie: %v", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeBody(w, body)
}

func writeBody(w http.ResponseWriter, b cachedBody) {
	w.Header().Set("Content-Type", b.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.body)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("encode response: %v", err)
	}
}

// writeError sends {"error": msg, "code": code}.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{"error": msg, "code": code})
}
