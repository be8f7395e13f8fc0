// README: Base handler utilities (JSON helpers, id parsing, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waymate/internal/maps"
	"waymate/internal/modules/group"
	"waymate/internal/modules/matching"
	"waymate/internal/modules/trip"
	"waymate/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// pathID parses a positive int64 path parameter; writes the 400 itself.
func pathID(c *gin.Context, name string) (types.ID, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return types.ID(v), true
}

// writeServiceError maps module sentinel errors onto HTTP statuses in one
// place so handlers stay thin.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrNotFound),
		errors.Is(err, matching.ErrNotFound),
		errors.Is(err, matching.ErrTripNotFound),
		errors.Is(err, group.ErrNotFound),
		errors.Is(err, group.ErrMessageNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrForbidden),
		errors.Is(err, matching.ErrForbidden),
		errors.Is(err, group.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, group.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrInvalidState),
		errors.Is(err, trip.ErrConflict),
		errors.Is(err, matching.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, maps.ErrLocationNotFound):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
