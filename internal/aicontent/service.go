package aicontent

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gobez-backend/internal/shared/telemetry"
)

// Context strings handed to the chat layer are capped so prompts stay bounded.
const maxContextChars = 8000

// Service is the read-mostly surface over AI content. Writes happen once
// per upload during ingestion; everything after is projection.
type Service struct {
	Repo  Repo
	Cache ContextCache
}

// Record stores a new content row and primes the cache. It is called by the
// ingestion pipeline only, on the completion transition.
func (s *Service) Record(ctx context.Context, content Content) (Content, error) {
	if content.UploadID == "" || content.OwnerID == "" {
		return Content{}, errors.New("uploadID and ownerID are required")
	}
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}

	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, content); err != nil {
			telemetry.Error("aicontent.cache", map[string]any{
				"upload_id": content.UploadID,
				"op":        "set",
				"error":     err.Error(),
			})
		}
	}
	return content, nil
}

// GetForOwner returns the content for an upload, enforcing ownership.
func (s *Service) GetForOwner(ctx context.Context, ownerID, uploadID string) (Content, error) {
	if ownerID == "" || uploadID == "" {
		return Content{}, errors.New("ownerID and uploadID are required")
	}

	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, uploadID); err == nil {
			if cached.OwnerID != ownerID {
				return Content{}, ErrNotFound
			}
			return cached, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			telemetry.Error("aicontent.cache", map[string]any{
				"upload_id": uploadID,
				"op":        "get",
				"error":     err.Error(),
			})
		}
	}

	content, err := s.Repo.GetByUploadID(ctx, uploadID)
	if err != nil {
		return Content{}, err
	}
	if content.OwnerID != ownerID {
		return Content{}, ErrNotFound
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, content); err != nil {
			telemetry.Error("aicontent.cache", map[string]any{
				"upload_id": uploadID,
				"op":        "set",
				"error":     err.Error(),
			})
		}
	}
	return content, nil
}

// ContextFor builds the grounding text the chat layer feeds to the provider.
func (s *Service) ContextFor(ctx context.Context, ownerID, uploadID string) (string, error) {
	content, err := s.GetForOwner(ctx, ownerID, uploadID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if summary := strings.TrimSpace(content.Summary); summary != "" {
		b.WriteString("Summary:\n")
		b.WriteString(summary)
	}
	if raw := strings.TrimSpace(content.RawContent); raw != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Material:\n")
		b.WriteString(raw)
	}

	text := b.String()
	if len(text) > maxContextChars {
		cut := maxContextChars
		// back up so the cap never splits a multi-byte rune
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}
