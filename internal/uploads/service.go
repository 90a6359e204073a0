package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"gobez-backend/internal/aicontent"
	"gobez-backend/internal/extract"
	"gobez-backend/internal/provider"
	"gobez-backend/internal/queue"
	"gobez-backend/internal/shared/metrics"
	"gobez-backend/internal/shared/storage/object"
	"gobez-backend/internal/shared/telemetry"
)

const defaultProviderTimeout = 60 * time.Second

// staleProcessingAge matches the worker's default visibility timeout. A row
// still processing after this long belongs to a worker that died mid-run.
const staleProcessingAge = 10 * time.Minute

// Service runs the ingestion pipeline: validate, persist the artifact,
// keep the ledger honest, and drive extraction and summarization.
type Service struct {
	Repo       Repo
	Store      object.ObjectStore
	Contents   *aicontent.Service
	Extractor  provider.Extractor
	Summarizer provider.Summarizer
	Queue      queue.Client
	Timeout    time.Duration
}

// SubmitDocument validates and stores a PDF, records a pending ledger row,
// and hands off processing. Nothing is persisted when validation fails.
func (s *Service) SubmitDocument(ctx context.Context, ownerID, fileName, declaredMime string, r io.Reader) (Upload, error) {
	if ownerID == "" {
		return Upload{}, errors.New("ownerID is required")
	}
	if fileName == "" {
		return Upload{}, &ValidationError{Reason: "file name is required"}
	}
	if err := s.checkProviders(); err != nil {
		return Upload{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSizeBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	if err := ValidateDocument(declaredMime, sniff, int64(len(data))); err != nil {
		return Upload{}, err
	}

	storageKey, size, _, err := s.Store.Save(ctx, ownerID, fileName, bytes.NewReader(data))
	if err != nil {
		return Upload{}, fmt.Errorf("store artifact: %w", err)
	}

	upload := Upload{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		SourceKind:    KindDocument,
		SourceLocator: storageKey,
		Title:         fileName,
		Status:        StatusPending,
		SizeBytes:     size,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, upload); err != nil {
		return Upload{}, err
	}

	s.dispatch(ctx, upload.ID)
	return upload, nil
}

// SubmitVideo validates a YouTube URL, records a pending ledger row,
// and hands off processing.
func (s *Service) SubmitVideo(ctx context.Context, ownerID, url string) (Upload, error) {
	if ownerID == "" {
		return Upload{}, errors.New("ownerID is required")
	}
	if err := s.checkProviders(); err != nil {
		return Upload{}, err
	}
	if _, err := ParseYouTubeID(url); err != nil {
		return Upload{}, err
	}

	upload := Upload{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		SourceKind:    KindVideo,
		SourceLocator: strings.TrimSpace(url),
		Title:         "YouTube Video",
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, upload); err != nil {
		return Upload{}, err
	}

	s.dispatch(ctx, upload.ID)
	return upload, nil
}

// Get returns an owner's upload by ID.
func (s *Service) Get(ctx context.Context, ownerID, uploadID string) (Upload, error) {
	if ownerID == "" || uploadID == "" {
		return Upload{}, errors.New("ownerID and uploadID are required")
	}
	upload, err := s.Repo.GetByID(ctx, uploadID)
	if err != nil {
		return Upload{}, err
	}
	if upload.OwnerID != ownerID {
		return Upload{}, ErrNotFound
	}
	return upload, nil
}

// List returns an owner's uploads, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Upload, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID is required")
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) checkProviders() error {
	if s.Extractor == nil || s.Summarizer == nil {
		return ErrProviderNotConfigured
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, uploadID string) {
	if s.Queue != nil {
		msg := queue.Message{
			UploadID:   uploadID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Error("upload.enqueue", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"upload_id":  uploadID,
			"error":      err.Error(),
		})
	}
	go s.processAsync(backgroundWithRequestID(ctx), uploadID)
}

func (s *Service) processAsync(ctx context.Context, uploadID string) {
	_ = s.Process(ctx, uploadID)
}

// Process drives one upload from pending to a terminal status. It is called
// from the submit goroutine and from the queue worker; the conditional
// pending->processing transition makes double delivery harmless.
func (s *Service) Process(ctx context.Context, uploadID string) (err error) {
	startedAt := time.Now().UTC()

	if err := s.Repo.UpdateStatus(ctx, uploadID, StatusPending, StatusProcessing, StatusPatch{StartedAt: &startedAt}); err != nil {
		if !errors.Is(err, ErrStatusConflict) {
			return err
		}
		if !s.reclaimStale(ctx, uploadID, startedAt) {
			return err
		}
	}

	upload, err := s.Repo.GetByID(ctx, uploadID)
	if err != nil {
		s.fail(ctx, uploadID, "", fmt.Errorf("upload lookup: %w", err), &startedAt)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			s.fail(ctx, uploadID, upload.OwnerID, err, &startedAt)
		}
	}()

	metrics.IncIngestStarted()
	telemetry.Info("upload.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"owner_id":          upload.OwnerID,
		"upload_id":         upload.ID,
		"source_kind":       upload.SourceKind,
		"status":            StatusProcessing,
		"status_transition": "pending->processing",
	})

	var patch StatusPatch
	var content aicontent.Content
	switch upload.SourceKind {
	case KindVideo:
		content, patch, err = s.processVideo(ctx, upload)
	default:
		content, patch, err = s.processDocument(ctx, upload)
	}
	if err != nil {
		s.fail(ctx, uploadID, upload.OwnerID, err, &startedAt)
		return err
	}

	if _, err := s.Contents.Record(ctx, content); err != nil {
		if !errors.Is(err, aicontent.ErrExists) {
			s.fail(ctx, uploadID, upload.OwnerID, fmt.Errorf("record content: %w", err), &startedAt)
			return err
		}
		// a previous attempt died between the content write and the status
		// flip; finishing the transition is the right move
	}

	completedAt := time.Now().UTC()
	patch.CompletedAt = &completedAt
	if err := s.Repo.UpdateStatus(ctx, uploadID, StatusProcessing, StatusCompleted, patch); err != nil {
		if !errors.Is(err, ErrStatusConflict) {
			s.fail(ctx, uploadID, upload.OwnerID, fmt.Errorf("set completed failed: %w", err), &startedAt)
		}
		return err
	}

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("upload.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"owner_id":          upload.OwnerID,
		"upload_id":         upload.ID,
		"source_kind":       upload.SourceKind,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// reclaimStale takes over a processing row whose worker died. Redelivery
// hands the message back only after the visibility timeout, so a row that
// has been processing longer than that is stranded, not in flight. The
// takeover re-stamps StartedAt through the same conditional update.
func (s *Service) reclaimStale(ctx context.Context, uploadID string, startedAt time.Time) bool {
	upload, err := s.Repo.GetByID(ctx, uploadID)
	if err != nil || upload.Status != StatusProcessing {
		return false
	}
	if upload.StartedAt == nil || startedAt.Sub(*upload.StartedAt) < staleProcessingAge {
		return false
	}
	if err := s.Repo.UpdateStatus(ctx, uploadID, StatusProcessing, StatusProcessing, StatusPatch{StartedAt: &startedAt}); err != nil {
		return false
	}
	telemetry.Info("upload.reclaim", map[string]any{
		"request_id":      requestIDFromContext(ctx),
		"owner_id":        upload.OwnerID,
		"upload_id":       upload.ID,
		"stale_for_ms":    durationMs(upload.StartedAt, &startedAt),
		"previous_status": StatusProcessing,
	})
	return true
}

func (s *Service) processDocument(ctx context.Context, upload Upload) (aicontent.Content, StatusPatch, error) {
	body, err := s.Store.Open(ctx, upload.SourceLocator)
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, fmt.Errorf("open artifact key=%s: %w", upload.SourceLocator, err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, fmt.Errorf("read artifact key=%s: %w", upload.SourceLocator, err)
	}

	input := provider.DocumentInput{
		FileName: upload.Title,
		MimeType: PDFMimeType,
		Data:     data,
	}
	res, err := s.extractDocument(ctx, upload, input)
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, err
	}

	summary, err := s.summarize(ctx, upload, provider.SummarizeInput{
		Text:       res.Text,
		SourceName: upload.Title,
		SourceKind: provider.SourceDocument,
	})
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, err
	}

	size := int64(len(data))
	return aicontent.Content{
		UploadID:    upload.ID,
		OwnerID:     upload.OwnerID,
		ContentType: aicontent.TypeDocumentSummary,
		RawContent:  res.Text,
		Summary:     summary,
	}, StatusPatch{SizeBytes: &size}, nil
}

// extractDocument walks the document chain: provider, then local PDF
// parsing, then placeholder text. Only soft provider failures fall through.
func (s *Service) extractDocument(ctx context.Context, upload Upload, input provider.DocumentInput) (provider.ExtractResult, error) {
	pctx, cancel := s.providerContext(ctx)
	res, err := s.Extractor.ExtractDocument(pctx, input)
	cancel()
	if err == nil {
		return res, nil
	}
	if !provider.IsSoft(err) {
		return provider.ExtractResult{}, fmt.Errorf("extract document: %w", err)
	}
	s.noteFallback(ctx, upload, "document_extraction", err)

	if text, localErr := extract.PDFText(ctx, input.Data); localErr == nil {
		return provider.ExtractResult{Text: text}, nil
	}
	return provider.FallbackExtractor{}.ExtractDocument(ctx, input)
}

func (s *Service) processVideo(ctx context.Context, upload Upload) (aicontent.Content, StatusPatch, error) {
	videoID, err := ParseYouTubeID(upload.SourceLocator)
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, fmt.Errorf("video locator: %w", err)
	}
	input := provider.VideoInput{VideoID: videoID, URL: upload.SourceLocator}

	pctx, cancel := s.providerContext(ctx)
	res, err := s.Extractor.ExtractVideo(pctx, input)
	cancel()
	if err != nil {
		if !provider.IsSoft(err) {
			return aicontent.Content{}, StatusPatch{}, fmt.Errorf("extract video: %w", err)
		}
		s.noteFallback(ctx, upload, "video_extraction", err)
		res, err = provider.FallbackExtractor{}.ExtractVideo(ctx, input)
		if err != nil {
			return aicontent.Content{}, StatusPatch{}, err
		}
	}

	if res.DurationMinutes > MaxVideoDurationMinutes {
		return aicontent.Content{}, StatusPatch{}, fmt.Errorf("video duration %d min exceeds %d minutes limit", res.DurationMinutes, MaxVideoDurationMinutes)
	}

	summary, err := s.summarize(ctx, upload, provider.SummarizeInput{
		Text:       res.Text,
		SourceName: res.Title,
		SourceKind: provider.SourceVideo,
	})
	if err != nil {
		return aicontent.Content{}, StatusPatch{}, err
	}

	title := res.Title
	if res.DurationMinutes > 0 {
		title = fmt.Sprintf("YouTube Video (%d min)", res.DurationMinutes)
	}
	patch := StatusPatch{DurationMinutes: &res.DurationMinutes}
	if title != "" {
		patch.Title = &title
	}

	return aicontent.Content{
		UploadID:    upload.ID,
		OwnerID:     upload.OwnerID,
		ContentType: aicontent.TypeVideoTranscriptSummary,
		RawContent:  res.Text,
		Summary:     summary,
	}, patch, nil
}

func (s *Service) summarize(ctx context.Context, upload Upload, input provider.SummarizeInput) (string, error) {
	pctx, cancel := s.providerContext(ctx)
	summary, err := s.Summarizer.Summarize(pctx, input)
	cancel()
	if err == nil {
		return summary, nil
	}
	if !provider.IsSoft(err) {
		return "", fmt.Errorf("summarize: %w", err)
	}
	s.noteFallback(ctx, upload, "summarization", err)
	return provider.FallbackSummarizer{}.Summarize(ctx, input)
}

func (s *Service) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *Service) noteFallback(ctx context.Context, upload Upload, stage string, err error) {
	metrics.IncFallbackUsed()
	telemetry.Info("upload.fallback", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"owner_id":   upload.OwnerID,
		"upload_id":  upload.ID,
		"stage":      stage,
		"reason":     sanitizeError(err),
	})
}

func (s *Service) fail(ctx context.Context, uploadID, ownerID string, err error, startedAt *time.Time) {
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	patch := StatusPatch{ErrorMessage: &msg, CompletedAt: &completedAt}
	if updateErr := s.Repo.UpdateStatus(context.Background(), uploadID, StatusProcessing, StatusFailed, patch); updateErr != nil {
		fmt.Printf("fail upload: update failed id=%s err=%v orig=%v\n", uploadID, updateErr, err)
	}
	metrics.IncIngestFailed()
	if startedAt != nil {
		metrics.ObserveIngestDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("upload.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"owner_id":          ownerID,
		"upload_id":         uploadID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error":             msg,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
