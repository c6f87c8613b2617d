// Package msgapi is the daemon's message surface: the browser-side client
// forwards each qualifying event as a typed message over loopback HTTP and
// applies whatever redirect the response instructs. One route per message
// kind, dispatched through a table keyed by the kind.
package msgapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// Server serves the message surface on a loopback address.
type Server struct {
	addr        string
	interceptor Interceptor
	status      StatusSource
	toggle      ToggleControl
	events      EventSource
	notices     *Notices
	ui          UIAuthority
	logger      log.Logger

	handlers map[domain.MessageKind]msgHandler
	httpSrv  *http.Server
}

// Options collects the collaborators for a Server.
type Options struct {
	Addr        string
	Interceptor Interceptor
	Status      StatusSource
	Toggle      ToggleControl
	Events      EventSource
	Notices     *Notices
	UI          UIAuthority
	Logger      log.Logger
}

// New constructs the message surface server.
func New(opts Options) *Server {
	s := &Server{
		addr:        opts.Addr,
		interceptor: opts.Interceptor,
		status:      opts.Status,
		toggle:      opts.Toggle,
		events:      opts.Events,
		notices:     opts.Notices,
		ui:          opts.UI,
		logger:      opts.Logger,
	}
	s.handlers = s.dispatch()
	return s
}

// router builds the chi mux. CORS allows extension origins to reach the
// daemon the same way they reach the authority.
func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"chrome-extension://*", "moz-extension://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/v1/messages/{kind}", s.handleMessage)
	r.Get("/v1/rules", s.handleRules)
	r.Get("/v1/stats/today", s.handleTodayStats)
	return r
}

// handleMessage resolves the kind from the path, looks it up in the
// dispatch table, and writes the typed result.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	kind := domain.MessageKind(chi.URLParam(r, "kind"))
	handler, ok := s.handlers[kind]
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrUnknownKind)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	result, err := handler(r.Context(), payload)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleRules passes the authority's rule list through to the UI layer.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	raw, err := s.ui.Rules(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

// handleTodayStats passes today's statistics through to the UI layer.
func (s *Server) handleTodayStats(w http.ResponseWriter, r *http.Request) {
	raw, err := s.ui.TodayStats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug(map[string]any{"error": err}, "Failed to write response body")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Start begins serving on the configured address. It returns once the
// listener is bound; serving continues until Stop.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.httpSrv = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.addr = ln.Addr().String()

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{"error": err}, "Message surface stopped unexpectedly")
		}
	}()

	s.logger.Info(map[string]any{"address": s.addr}, "Message surface listening")
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// Address returns the bound listen address.
func (s *Server) Address() string {
	return s.addr
}
