// Package endpoints exposes the voice assistant over HTTP and websocket.
package endpoints

import (
	"net/http"
	"time"

	"github.com/EasterCompany/dex-voice-service/dialogue"
	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler holds the collaborators every endpoint needs.
type Handler struct {
	router         *dialogue.Router
	stt            services.STTService
	tts            services.TTSService
	status         *services.StatusServer
	defaultVoice   services.Voice
	maxUploadBytes int64
	requestTimeout time.Duration
	allowedOrigins []string
}

// Options configure a Handler.
type Options struct {
	DefaultVoice   services.Voice
	MaxUploadBytes int64
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewHandler creates a Handler. status may be nil, in which case /status,
// /health and /services are not mounted.
func NewHandler(router *dialogue.Router, stt services.STTService, tts services.TTSService, status *services.StatusServer, opts Options) *Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Handler{
		router:         router,
		stt:            stt,
		tts:            tts,
		status:         status,
		defaultVoice:   opts.DefaultVoice,
		maxUploadBytes: opts.MaxUploadBytes,
		requestTimeout: opts.RequestTimeout,
		allowedOrigins: opts.AllowedOrigins,
	}
}

// Routes builds the HTTP router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/ping", h.handlePing)
	r.Get("/ws", h.handleWS)

	r.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(requestTimeout(h.requestTimeout))
		}
		r.Post("/asr", h.handleASR)
		r.Post("/chat", h.handleChat)
		r.Post("/tts", h.handleTTS)
	})

	if h.status != nil {
		r.Get("/status", h.status.HandleStatus)
		r.Get("/health", h.status.HandleHealth)
		r.Get("/services", h.status.HandleServices)
	}

	return r
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
