// README: Group handlers: create/fetch groups and the message board.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpmiddleware "waymate/internal/http/middleware"
	"waymate/internal/modules/group"
	"waymate/internal/types"
)

type GroupHandler struct {
	groups *group.Service
}

func NewGroupHandler(svc *group.Service) *GroupHandler {
	return &GroupHandler{groups: svc}
}

type memberResponse struct {
	UserID   types.ID  `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type groupResponse struct {
	ID           types.ID         `json:"id"`
	Name         string           `json:"name"`
	OriginTripID *types.ID        `json:"origin_trip_id,omitempty"`
	CreatorID    types.ID         `json:"creator_id"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	Members      []memberResponse `json:"members"`
}

type messageResponse struct {
	ID        types.ID  `json:"id"`
	GroupID   types.ID  `json:"group_id"`
	SenderID  types.ID  `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toGroupResponse(g *group.Group) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberResponse{UserID: m.UserID, Role: string(m.Role), JoinedAt: m.JoinedAt})
	}
	return groupResponse{
		ID:           g.ID,
		Name:         g.Name,
		OriginTripID: g.OriginTripID,
		CreatorID:    g.CreatorID,
		Status:       string(g.Status),
		CreatedAt:    g.CreatedAt,
		Members:      members,
	}
}

func toMessageResponse(m *group.Message) messageResponse {
	return messageResponse{ID: m.ID, GroupID: m.GroupID, SenderID: m.SenderID, Body: m.Body, CreatedAt: m.CreatedAt}
}

type createGroupReq struct {
	Name string `json:"name"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	g, err := h.groups.Create(c.Request.Context(), httpmiddleware.CallerID(c), req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toGroupResponse(g))
}

func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	g, err := h.groups.Get(c.Request.Context(), httpmiddleware.CallerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toGroupResponse(g))
}

type postMessageReq struct {
	Body string `json:"body"`
}

func (h *GroupHandler) PostMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.groups.PostMessage(c.Request.Context(), httpmiddleware.CallerID(c), id, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toMessageResponse(m))
}

func (h *GroupHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.groups.ListMessages(c.Request.Context(), httpmiddleware.CallerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *GroupHandler) DeleteMessage(c *gin.Context) {
	msgID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	if err := h.groups.DeleteMessage(c.Request.Context(), httpmiddleware.CallerID(c), msgID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
