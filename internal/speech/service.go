package speech

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/repo"
)

// Synthesizer converts text to raw mono 16-bit PCM at 24kHz.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service turns stored chat messages into playable WAV audio.
type Service struct {
	messages repo.MessageRepo
	synth    Synthesizer
}

// NewService creates a new speech service
func NewService(messages repo.MessageRepo, synth Synthesizer) *Service {
	return &Service{messages: messages, synth: synth}
}

// SynthesizeMessage resolves the message (ownership enforced via its
// session), cleans the text for audio and returns a WAV byte buffer.
func (s *Service) SynthesizeMessage(ctx context.Context, messageID, userID uuid.UUID) ([]byte, error) {
	msg, err := s.messages.GetForUser(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}

	text := CleanText(msg.Content)
	if utf8.RuneCountInString(text) < 2 {
		return nil, model.ErrEmptyText
	}

	pcm, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		log.Printf("TTS error for message %s: %v", messageID, err)
		return nil, fmt.Errorf("%w: %v", model.ErrTTSUnavailable, err)
	}

	return WrapPCM(pcm, SampleRate), nil
}
