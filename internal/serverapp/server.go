package serverapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/httpmw"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/storage"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

type Options struct {
	Config *config.Config
	Engine *game.Engine
	// Store backs the readiness probe. Optional.
	Store  storage.Store
	Events telemetry.Repository
	Logger *logger.Logger
}

// App is what NewApp wires together; Close releases the websocket hub.
type App struct {
	Handler http.Handler
	Routes  *RouteRegistry
	hub     *Hub
}

func (a *App) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
}

func NewHandler(opts Options) (http.Handler, error) {
	app, err := NewApp(opts)
	if err != nil {
		return nil, err
	}
	return app.Handler, nil
}

func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepository()
	}

	mux := http.NewServeMux()
	rr := &RouteRegistry{}
	eng := opts.Engine

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "grimoire",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Store != nil {
			if _, err := opts.Store.LoadOffset(r.Context()); err != nil && !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrCorrupt) {
				opts.Logger.Warn("readiness check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"ok":    false,
					"error": "storage unavailable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "grimoire",
			"today":   eng.Today(),
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		templ.Handler(ui.StatusPage(eng.Overview(), eng.Snapshot())).ServeHTTP(w, r)
	})

	mux.HandleFunc("GET /_/routes.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mutates") == "true" {
			writeJSON(w, http.StatusOK, rr.Mutations())
			return
		}
		writeJSON(w, http.StatusOK, rr.List())
	})

	hub := NewHub(eng, opts.Logger)
	registerAPI(mux, rr, eng, opts.Events)
	Handle(mux, rr, "GET /api/ws", "Websocket snapshot feed", "", hub.ServeWS)

	h := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)
	return &App{Handler: h, Routes: rr, hub: hub}, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeInputErr maps validation failures to 400 and everything else to 500.
func writeInputErr(w http.ResponseWriter, err error) {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
		return
	}
	writeErr(w, http.StatusInternalServerError, err.Error())
}

// decodeBody accepts an empty body as the zero value.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
