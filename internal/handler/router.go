package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/fredke/backend/internal/handler/chat"
	"github.com/zhouzirui/fredke/backend/internal/handler/events"
	middlewarePkg "github.com/zhouzirui/fredke/backend/internal/middleware"
	chatService "github.com/zhouzirui/fredke/backend/internal/service/chat"
	"github.com/zhouzirui/fredke/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The websocket feed is
// mounted only when hub is non-nil.
func NewRouter(chatSvc *chatService.Service, hub *chatService.Hub, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chatHandler := chat.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		if hub != nil {
			events.New(hub, allowedOrigins).RegisterRoutes(api)
		}
	})

	return r
}
