package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gobez-backend/internal/provider"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client talks to the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Gemini client. A missing API key or model is a
// configuration error, not a runtime one.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("PROVIDER_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []struct {
		Parts []contentPart `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ExtractDocument sends the PDF bytes inline and asks for a clean text rendition.
func (c *Client) ExtractDocument(ctx context.Context, input provider.DocumentInput) (provider.ExtractResult, error) {
	parts := []contentPart{
		{Text: "Extract all text content from this PDF document. Provide a clean, structured text version."},
		{InlineData: &inlineData{
			MimeType: input.MimeType,
			Data:     base64.StdEncoding.EncodeToString(input.Data),
		}},
	}
	text, err := c.generate(ctx, parts)
	if err != nil {
		return provider.ExtractResult{}, err
	}
	return provider.ExtractResult{Text: text}, nil
}

type videoExtraction struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	Transcript      string `json:"transcript"`
}

// ExtractVideo asks for a transcript plus metadata as a strict JSON object.
func (c *Client) ExtractVideo(ctx context.Context, input provider.VideoInput) (provider.ExtractResult, error) {
	prompt := fmt.Sprintf(
		"Produce a transcript for the YouTube video at %s (video id %s). "+
			"Respond with a single JSON object and nothing else, shaped as "+
			`{"title": string, "durationMinutes": number, "transcript": string}.`,
		input.URL, input.VideoID,
	)
	text, err := c.generate(ctx, []contentPart{{Text: prompt}})
	if err != nil {
		return provider.ExtractResult{}, err
	}

	var parsed videoExtraction
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &parsed); err != nil {
		return provider.ExtractResult{}, &provider.SoftError{Reason: "video extraction response is not valid JSON"}
	}
	if strings.TrimSpace(parsed.Transcript) == "" {
		return provider.ExtractResult{}, &provider.SoftError{Reason: "video extraction response missing transcript"}
	}
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = "YouTube Video " + input.VideoID
	}
	return provider.ExtractResult{
		Text:            parsed.Transcript,
		Title:           title,
		DurationMinutes: parsed.DurationMinutes,
	}, nil
}

// Summarize produces an educational summary in the app's tutor voice.
func (c *Client) Summarize(ctx context.Context, input provider.SummarizeInput) (string, error) {
	var prompt string
	if input.SourceKind == provider.SourceVideo {
		prompt = "Create an educational summary of this YouTube video transcript in a friendly Ethiopian tutor style. " +
			"Use encouraging phrases and highlight key learning points:\n\n" + input.Text
	} else {
		prompt = "Create a concise educational summary of this content in a friendly Ethiopian style. " +
			`Use encouraging phrases like "Betam gobez!" and focus on key learning points:` + "\n\n" + input.Text
	}
	return c.generate(ctx, []contentPart{{Text: prompt}})
}

// Respond answers a chat message, grounded on the supplied context when present.
func (c *Client) Respond(ctx context.Context, input provider.RespondInput) (string, error) {
	var b strings.Builder
	b.WriteString("You are Gobez, a warm Ethiopian AI study tutor. Answer the student's message helpfully ")
	b.WriteString("and sprinkle in encouraging Amharic phrases where natural.\n\n")
	if strings.TrimSpace(input.Context) != "" {
		b.WriteString("Study material context:\n")
		b.WriteString(input.Context)
		b.WriteString("\n\n")
	}
	b.WriteString("Student: ")
	b.WriteString(input.Message)
	return c.generate(ctx, []contentPart{{Text: b.String()}})
}

func (c *Client) generate(ctx context.Context, parts []contentPart) (string, error) {
	var reqBody generateRequest
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []contentPart `json:"parts"`
	}{Parts: parts})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.SoftError{Reason: "gemini request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.SoftError{Status: resp.StatusCode, Reason: "gemini response read failed"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("gemini response model=%s status=%d", c.model, resp.StatusCode)
		return "", &provider.SoftError{Status: resp.StatusCode, Reason: "gemini request rejected"}
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &provider.SoftError{Status: resp.StatusCode, Reason: "gemini response parse failed"}
	}
	if parsed.Error != nil {
		return "", &provider.SoftError{Status: parsed.Error.Code, Reason: "gemini error: " + parsed.Error.Message}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &provider.SoftError{Status: resp.StatusCode, Reason: "gemini response missing candidates"}
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", &provider.SoftError{Status: resp.StatusCode, Reason: "gemini response empty content"}
	}
	return text, nil
}

func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

var (
	_ provider.Extractor  = (*Client)(nil)
	_ provider.Summarizer = (*Client)(nil)
	_ provider.Responder  = (*Client)(nil)
)
