// README: Match handlers: list per trip, accept, decline.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpmiddleware "waymate/internal/http/middleware"
	"waymate/internal/modules/matching"
	"waymate/internal/types"
)

type MatchHandler struct {
	matches *matching.Service
}

func NewMatchHandler(svc *matching.Service) *MatchHandler {
	return &MatchHandler{matches: svc}
}

type matchResponse struct {
	ID        types.ID     `json:"id"`
	TripID    types.ID     `json:"trip_id"`
	Score     int          `json:"score"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Candidate tripResponse `json:"candidate"`
}

func (h *MatchHandler) ListForTrip(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	views, err := h.matches.ListForTrip(c.Request.Context(), httpmiddleware.CallerID(c), tripID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]matchResponse, 0, len(views))
	for _, v := range views {
		out = append(out, matchResponse{
			ID:        v.Match.ID,
			TripID:    v.Match.SubjectTripID,
			Score:     v.Match.Score,
			Status:    string(v.Match.Status),
			CreatedAt: v.Match.CreatedAt,
			Candidate: toTripResponse(v.Candidate),
		})
	}
	writeJSON(c, http.StatusOK, out)
}

// Accept resolves the match for both sides and returns the shared group.
func (h *MatchHandler) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	g, err := h.matches.Accept(c.Request.Context(), httpmiddleware.CallerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toGroupResponse(g))
}

func (h *MatchHandler) Decline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.matches.Decline(c.Request.Context(), httpmiddleware.CallerID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": string(matching.StatusDeclined)})
}
