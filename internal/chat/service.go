package chat

import (
	"context"
	"errors"
	"fmt"

	"gobez-backend/internal/aicontent"
	"gobez-backend/internal/provider"
	"gobez-backend/internal/shared/telemetry"
)

// Reply is a generated chat answer.
type Reply struct {
	Message string
	Type    ResponseType
}

// Service answers student messages, grounded on ingested material when an
// upload is referenced. Provider trouble degrades to a friendly fallback
// instead of an error.
type Service struct {
	Responder provider.Responder
	Contents  *aicontent.Service
	Phrases   *PhrasePicker
}

// Generate produces a reply for the owner's message.
func (s *Service) Generate(ctx context.Context, ownerID, message, uploadID string) (Reply, error) {
	if ownerID == "" || message == "" {
		return Reply{}, errors.New("ownerID and message are required")
	}

	responseType := Classify(message)

	var grounding string
	if uploadID != "" && s.Contents != nil {
		text, err := s.Contents.ContextFor(ctx, ownerID, uploadID)
		if err != nil {
			if errors.Is(err, aicontent.ErrNotFound) {
				return Reply{}, aicontent.ErrNotFound
			}
			return Reply{}, fmt.Errorf("load context: %w", err)
		}
		grounding = text
	}

	if s.Responder == nil {
		return Reply{Message: s.fallbackMessage(), Type: responseType}, nil
	}

	answer, err := s.Responder.Respond(ctx, provider.RespondInput{
		Message: message,
		Context: grounding,
	})
	if err != nil {
		if !provider.IsSoft(err) {
			return Reply{}, fmt.Errorf("respond: %w", err)
		}
		telemetry.Info("chat.fallback", map[string]any{
			"owner_id":  ownerID,
			"upload_id": uploadID,
			"reason":    err.Error(),
		})
		return Reply{Message: s.fallbackMessage(), Type: responseType}, nil
	}

	return Reply{Message: answer, Type: responseType}, nil
}

func (s *Service) fallbackMessage() string {
	const base = "Selam! I'm having trouble connecting right now. Please try again!"
	if s.Phrases != nil {
		return base + " " + s.Phrases.Pick()
	}
	return base + " Gobez neh!"
}
