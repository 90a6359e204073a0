package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/shared/server/middleware"
)

func newRequestIDRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func TestSubmitDocumentPropagatesRequestID(t *testing.T) {
	svc, _, _, q := newTestService(t)
	router := newRequestIDRouter(t, svc)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="notes.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(pdfBytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-Id", "req-abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(q.msgs) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(q.msgs))
	}
	if q.msgs[0].RequestID != "req-abc" {
		t.Fatalf("expected request id carried into queue message, got %q", q.msgs[0].RequestID)
	}
}

func TestSubmitVideoPropagatesRequestID(t *testing.T) {
	svc, _, _, q := newTestService(t)
	router := newRequestIDRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/youtube", strings.NewReader(`{"url":"https://youtu.be/abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-xyz")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(q.msgs) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(q.msgs))
	}
	if q.msgs[0].RequestID != "req-xyz" {
		t.Fatalf("expected request id carried into queue message, got %q", q.msgs[0].RequestID)
	}
}
