// README: Trip handlers: create, get, list, edit, and lifecycle transitions.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpmiddleware "waymate/internal/http/middleware"
	"waymate/internal/modules/trip"
	"waymate/internal/types"
)

const dateLayout = "2006-01-02"

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type tripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"` // YYYY-MM-DD
	TimeOfDay   string `json:"time_of_day,omitempty"`
	Mode        string `json:"mode"`
	Preference  string `json:"preference,omitempty"`
}

type tripResponse struct {
	ID              types.ID      `json:"id"`
	UserID          types.ID      `json:"user_id"`
	Origin          string        `json:"origin"`
	Destination     string        `json:"destination"`
	OriginCoord     *types.Point  `json:"origin_coord,omitempty"`
	DestCoord       *types.Point  `json:"dest_coord,omitempty"`
	Date            string        `json:"date"`
	TimeOfDay       string        `json:"time_of_day,omitempty"`
	Mode            string        `json:"mode"`
	Preference      string        `json:"preference"`
	Status          string        `json:"status"`
	Polyline        []types.Point `json:"polyline,omitempty"`
	DistanceMeters  int           `json:"distance_meters,omitempty"`
	DurationSeconds int           `json:"duration_seconds,omitempty"`
	EstimatedCost   float64       `json:"estimated_cost,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		Origin:          t.Origin,
		Destination:     t.Destination,
		OriginCoord:     t.OriginCoord,
		DestCoord:       t.DestCoord,
		Date:            t.Date.Format(dateLayout),
		TimeOfDay:       t.TimeOfDay,
		Mode:            string(t.Mode),
		Preference:      string(t.Preference),
		Status:          string(t.Status),
		Polyline:        t.Polyline,
		DistanceMeters:  t.DistanceMeters,
		DurationSeconds: t.DurationSeconds,
		EstimatedCost:   t.EstimatedCost,
		CreatedAt:       t.CreatedAt,
	}
}

func (h *TripHandler) Create(c *gin.Context) {
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	t, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		UserID:      httpmiddleware.CallerID(c),
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        date,
		TimeOfDay:   req.TimeOfDay,
		Mode:        req.Mode,
		Preference:  req.Preference,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResponse(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) ListMine(c *gin.Context) {
	trips, err := h.trips.ListMine(c.Request.Context(), httpmiddleware.CallerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *TripHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	t, err := h.trips.Update(c.Request.Context(), httpmiddleware.CallerID(c), trip.UpdateCommand{
		ID:          id,
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        date,
		TimeOfDay:   req.TimeOfDay,
		Mode:        req.Mode,
		Preference:  req.Preference,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) Cancel(c *gin.Context) {
	h.transition(c, h.trips.Cancel, trip.StatusCancelled)
}

func (h *TripHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.trips.Reactivate, trip.StatusActive)
}

func (h *TripHandler) Complete(c *gin.Context) {
	h.transition(c, h.trips.Complete, trip.StatusCompleted)
}

func (h *TripHandler) transition(c *gin.Context, op func(ctx context.Context, callerID, id types.ID) error, to trip.Status) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), httpmiddleware.CallerID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": string(to)})
}
