package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/coursekit/coursechat/internal/config"
	"github.com/coursekit/coursechat/internal/database"
	"github.com/coursekit/coursechat/internal/membership"
	"github.com/coursekit/coursechat/internal/server"
	"github.com/coursekit/coursechat/internal/unread"
	"github.com/gorilla/handlers"
	"github.com/teris-io/shortid"
)

type CourseChatApp struct {
	log             *log.Logger
	db              database.CourseRepository
	oracle          membership.Oracle
	unread          unread.Store
	cs              *server.ChatServer
	mux             *http.Server
	signingKey      []byte
	allowedOrigins  []string
	generateShortId func() (string, error)
}

func NewCourseChatApp(mux *http.ServeMux, logger *log.Logger, cs *server.ChatServer, db database.CourseRepository,
	oracle membership.Oracle, unreadStore unread.Store, cfg *config.Config) *CourseChatApp {
	s := &CourseChatApp{
		log:             logger,
		db:              db,
		oracle:          oracle,
		unread:          unreadStore,
		cs:              cs,
		signingKey:      cfg.SigningKey,
		allowedOrigins:  cfg.AllowedOrigins,
		generateShortId: shortid.Generate,
	}

	mux.Handle("GET /api/chat/{course_id}/unread", s.authMiddleware(s.getUnreadCount))
	mux.Handle("POST /api/chat/{course_id}/unread/reset", s.authMiddleware(s.resetUnreadCount))
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /ws", s.serveWs)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *CourseChatApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *CourseChatApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
