package aicontent

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches content routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/uploads/:id/content", h.get)
}

// ContentResponse is the outward-facing representation of AI content.
type ContentResponse struct {
	UploadID    string    `json:"uploadId"`
	ContentType string    `json:"contentType"`
	RawContent  string    `json:"rawContent"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *Handler) get(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	uploadID := c.Param("id")
	c.Set("uploadId", uploadID)

	content, err := h.Svc.GetForOwner(c.Request.Context(), ownerID, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch content", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, ContentResponse{
		UploadID:    content.UploadID,
		ContentType: content.ContentType,
		RawContent:  content.RawContent,
		Summary:     content.Summary,
		CreatedAt:   content.CreatedAt,
	})
}
