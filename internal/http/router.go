// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"waymate/internal/http/handlers"
	"waymate/internal/http/middleware"
	"waymate/internal/modules/group"
	"waymate/internal/modules/matching"
	"waymate/internal/modules/trip"
)

func NewRouter(
	tripService *trip.Service,
	matchService *matching.Service,
	groupService *group.Service,
	jwtSecret string,
	log *zap.Logger,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(jwtSecret))

	tripHandler := handlers.NewTripHandler(tripService)
	api.POST("/trips", tripHandler.Create)
	api.GET("/trips", tripHandler.ListMine)
	api.GET("/trips/:id", tripHandler.Get)
	api.PUT("/trips/:id", tripHandler.Update)
	api.POST("/trips/:id/cancel", tripHandler.Cancel)
	api.POST("/trips/:id/reactivate", tripHandler.Reactivate)
	api.POST("/trips/:id/complete", tripHandler.Complete)

	matchHandler := handlers.NewMatchHandler(matchService)
	api.GET("/trips/:id/matches", matchHandler.ListForTrip)
	api.POST("/matches/:id/accept", matchHandler.Accept)
	api.POST("/matches/:id/decline", matchHandler.Decline)

	groupHandler := handlers.NewGroupHandler(groupService)
	api.POST("/groups", groupHandler.Create)
	api.GET("/groups/:id", groupHandler.Get)
	api.POST("/groups/:id/messages", groupHandler.PostMessage)
	api.GET("/groups/:id/messages", groupHandler.ListMessages)
	api.DELETE("/groups/:id/messages/:message_id", groupHandler.DeleteMessage)

	return r
}
