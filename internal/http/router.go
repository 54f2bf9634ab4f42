package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kisanmitra/server/internal/http/handlers"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, chatHandler *handlers.ChatHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	healthHandler := handlers.NewHealthHandler()
	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-otp", authHandler.HandleSendOTP)
		r.Post("/verify-otp", authHandler.HandleVerifyOTP)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Get("/{userID}", userHandler.HandleGet)
		r.Put("/{userID}", userHandler.HandleUpdate)
		r.Delete("/{userID}", userHandler.HandleDelete)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/sessions", chatHandler.HandleCreateSession)
		r.Get("/sessions/{userID}", chatHandler.HandleListSessions)
		r.Delete("/sessions/{sessionID}", chatHandler.HandleDeleteSession)
		r.Post("/messages/{messageID}/speech", chatHandler.HandleSynthesizeSpeech)
		r.Post("/{sessionID}/message", chatHandler.HandlePostMessage)
		r.Get("/{sessionID}/history", chatHandler.HandleGetHistory)
	})

	return r
}
