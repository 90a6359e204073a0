package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/aicontent"
	"gobez-backend/internal/shared/server/middleware"
	"gobez-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.generate)
}

type chatRequest struct {
	Message  string `json:"message"`
	UploadID string `json:"uploadId"`
}

type chatResponse struct {
	Message string       `json:"message"`
	Type    ResponseType `json:"type"`
}

func (h *Handler) generate(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	if req.UploadID != "" {
		c.Set("uploadId", req.UploadID)
	}

	reply, err := h.Svc.Generate(c.Request.Context(), ownerID, req.Message, req.UploadID)
	if err != nil {
		switch {
		case errors.Is(err, aicontent.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "upload content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate reply", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, chatResponse{Message: reply.Message, Type: reply.Type})
}
