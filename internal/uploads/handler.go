package uploads

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/shared/server/middleware"
	"gobez-backend/internal/shared/server/respond"
)

// Request bodies are capped slightly above the document limit so multipart
// framing does not push a valid PDF over the edge.
const maxRequestBody = MaxDocumentSizeBytes + 1<<20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.submitDocument)
	rg.POST("/uploads/youtube", h.submitVideo)
	rg.GET("/uploads", h.list)
	rg.GET("/uploads/:id", h.get)
}

func (h *Handler) submitDocument(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	declaredMime := fileHeader.Header.Get("Content-Type")
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	upload, err := h.Svc.SubmitDocument(ctx, ownerID, fileHeader.Filename, declaredMime, file)
	if err != nil {
		h.writeSubmitError(c, err, "failed to submit document")
		return
	}

	c.Set("uploadId", upload.ID)
	respond.JSON(c, http.StatusCreated, toResponse(upload))
}

type submitVideoRequest struct {
	URL string `json:"url"`
}

func (h *Handler) submitVideo(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	var req submitVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "url is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	upload, err := h.Svc.SubmitVideo(ctx, ownerID, req.URL)
	if err != nil {
		h.writeSubmitError(c, err, "failed to submit video")
		return
	}

	c.Set("uploadId", upload.ID)
	respond.JSON(c, http.StatusCreated, toResponse(upload))
}

func (h *Handler) writeSubmitError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case IsValidation(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrProviderNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "provider_not_configured", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallbackMsg, nil)
	}
}

func (h *Handler) get(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	uploadID := c.Param("id")
	c.Set("uploadId", uploadID)

	upload, err := h.Svc.Get(c.Request.Context(), ownerID, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "upload not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch upload", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(upload))
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	uploads, err := h.Svc.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list uploads", nil)
		return
	}

	resp := make([]UploadResponse, 0, len(uploads))
	for _, upload := range uploads {
		resp = append(resp, toResponse(upload))
	}
	respond.JSON(c, http.StatusOK, resp)
}
