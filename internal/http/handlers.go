package http

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bloodhelp-bot/pkg"
)

// MessageHandler is the engine boundary: one inbound message in, one
// reply string out.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg pkg.InboundMessage) string
}

// Server bundles together the dependencies required by HTTP handlers.
// It implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	engine MessageHandler
	logger *slog.Logger
	router chi.Router
}

// NewServer constructs a Server with its routes mounted.
func NewServer(engine MessageHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// twimlResponse is the Twilio messaging reply envelope.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// handleWebhook receives a Twilio WhatsApp message webhook, runs one
// conversation turn, and renders the reply as TwiML.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	msg := pkg.InboundMessage{
		Body:         r.FormValue("Body"),
		ConversantID: r.FormValue("From"),
		DisplayName:  r.FormValue("ProfileName"),
	}
	if msg.ConversantID == "" {
		http.Error(w, "missing From", http.StatusBadRequest)
		return
	}
	if msg.DisplayName == "" {
		msg.DisplayName = "Friend"
	}
	s.logger.Info("inbound message", "from", msg.ConversantID, "profile", msg.DisplayName)

	reply := s.engine.HandleMessage(r.Context(), msg)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if err := xml.NewEncoder(w).Encode(twimlResponse{Message: reply}); err != nil {
		s.logger.Error("twiml encode failed", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
