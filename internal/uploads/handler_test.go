package uploads_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/bootstrap"
	"gobez-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		ProviderTimeout: 5 * time.Second,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func pdfUploadRequest(t *testing.T, fileName, contentType string, payload []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	return req
}

type uploadBody struct {
	UploadID        string `json:"uploadId"`
	SourceKind      string `json:"sourceKind"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	DurationMinutes int    `json:"durationMinutes"`
}

func pollUntilDone(t *testing.T, router http.Handler, uploadID string) uploadBody {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	var last uploadBody
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+uploadID, nil)
		addGuestHeader(req)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200 polling upload, got %d", resp.Code)
		}
		if err := json.NewDecoder(resp.Body).Decode(&last); err != nil {
			t.Fatalf("decode upload: %v", err)
		}
		if last.Status == "completed" || last.Status == "failed" {
			return last
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("upload %s still %q after deadline", uploadID, last.Status)
	return last
}

func TestUploadsSubmitDocumentLifecycle(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	req := pdfUploadRequest(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4\nstudy notes"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created uploadBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.UploadID == "" {
		t.Fatalf("expected uploadId, got empty")
	}
	if created.SourceKind != "document" {
		t.Fatalf("expected sourceKind document, got %s", created.SourceKind)
	}
	if created.Status != "pending" {
		t.Fatalf("expected status pending, got %s", created.Status)
	}

	final := pollUntilDone(t, router, created.UploadID)
	if final.Status != "completed" {
		t.Fatalf("expected status completed, got %s", final.Status)
	}
	if final.Title != "notes.pdf" {
		t.Fatalf("expected title notes.pdf, got %s", final.Title)
	}

	// Listing shows the finished upload.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/uploads", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listed []uploadBody
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].UploadID != created.UploadID {
		t.Fatalf("expected listed upload %s, got %+v", created.UploadID, listed)
	}
}

func TestUploadsRejectNonPDF(t *testing.T) {
	app := newTestApp(t)

	req := pdfUploadRequest(t, "notes.txt", "text/plain", []byte("plain text"))
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error, got %s", resp.Body.String())
	}
}

func TestUploadsSubmitYouTubeLifecycle(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	payload := `{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/youtube", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created uploadBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.SourceKind != "video" {
		t.Fatalf("expected sourceKind video, got %s", created.SourceKind)
	}

	final := pollUntilDone(t, router, created.UploadID)
	if final.Status != "completed" {
		t.Fatalf("expected status completed, got %s", final.Status)
	}
}

func TestUploadsRejectNonYouTubeURL(t *testing.T) {
	app := newTestApp(t)

	payload := `{"url":"https://vimeo.com/12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/youtube", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestUploadsGetUnknownReturns404(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/does-not-exist", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
