package router

import (
	"database/sql"
	"net/http"

	"tulisbareng/config"
	docHandler "tulisbareng/internal/document"
	"tulisbareng/internal/document/repository"
	"tulisbareng/internal/document/service"
	"tulisbareng/middleware"
	"tulisbareng/socket"
)

func Setup(db *sql.DB, registry *socket.Registry, limiter *socket.RateLimiter, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth([]byte(cfg.JWTSecret))

	docRepo := repository.NewDocumentRepository(db)

	// WebSocket relay
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		socket.ServeWs(registry, limiter, docRepo, w, r, userID)
	})
	mux.Handle("/ws", auth(wsHandler))

	// REST API
	docService := service.NewDocumentService(docRepo)
	docHandler := docHandler.NewDocumentHandler(docService)

	mux.Handle("/api/documents/create", auth(http.HandlerFunc(docHandler.CreateDocument)))
	mux.Handle("/api/documents/get", auth(http.HandlerFunc(docHandler.GetDocument)))
	mux.Handle("/api/documents/delete", auth(http.HandlerFunc(docHandler.DeleteDocument)))
	mux.Handle("/api/documents/update", auth(http.HandlerFunc(docHandler.UpdateDocument)))
	mux.Handle("/api/documents", auth(http.HandlerFunc(docHandler.GetDocuments)))
	mux.Handle("/api/documents/invite", auth(http.HandlerFunc(docHandler.AddCollaborator)))
	mux.Handle("/api/documents/collaborators/remove", auth(http.HandlerFunc(docHandler.RemoveCollaborator)))
	mux.Handle("/api/documents/save", auth(http.HandlerFunc(docHandler.SaveDocument)))

	return middleware.CORS(cfg.AllowedOrigin)(mux)
}
