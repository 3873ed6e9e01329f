// Package assistant implements the HyderAQI chat assistant. Each Session owns
// one provider conversation; the conversation carries the turn history.
package assistant

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Fallback is returned whenever a reply cannot be produced.
const Fallback = "I'm having trouble connecting right now. Please try again later."

// Persona is the system instruction every conversation starts with.
const Persona = "You are 'HyderAQI Assistant', an expert on Hyderabad's air pollution. " +
	"You have access to real-time data (PM2.5, PM10, etc.). " +
	"Help citizens understand how to stay safe and explain the sources of pollution in Hyderabad " +
	"like vehicular emissions, construction, and weather patterns."

// Conversation is a provider chat that remembers earlier turns.
type Conversation interface {
	Send(ctx context.Context, message string) (string, error)
}

// Starter opens a new provider conversation primed with a system instruction.
type Starter interface {
	StartChat(ctx context.Context, systemInstruction string) (Conversation, error)
}

// StarterFunc adapts a function to Starter.
type StarterFunc func(ctx context.Context, systemInstruction string) (Conversation, error)

// StartChat calls f.
func (f StarterFunc) StartChat(ctx context.Context, systemInstruction string) (Conversation, error) {
	return f(ctx, systemInstruction)
}

// Assistant creates sessions against one provider.
type Assistant struct {
	starter Starter
	timeout time.Duration
	logger  *slog.Logger
}

// New returns an Assistant. A non-positive timeout defaults to 30s.
func New(starter Starter, timeout time.Duration, logger *slog.Logger) *Assistant {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assistant{starter: starter, timeout: timeout, logger: logger}
}

// NewSession returns an empty session. The provider conversation is opened on
// the first Send so creating a session never touches the network.
func (a *Assistant) NewSession() *Session {
	return &Session{assistant: a}
}

// Session is one user's conversation. Sends are serialized; Turns never
// waits for a send in flight.
type Session struct {
	assistant *Assistant

	mu    sync.Mutex
	conv  Conversation
	turns atomic.Int64
}

// Send forwards message and returns the reply, or Fallback on any failure.
func (s *Session) Send(ctx context.Context, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.assistant
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if s.conv == nil {
		conv, err := a.starter.StartChat(ctx, Persona)
		if err != nil {
			a.logger.Error("chat session start failed", "error", err)
			return Fallback
		}
		s.conv = conv
	}

	reply, err := s.conv.Send(ctx, message)
	if err != nil {
		a.logger.Error("chat message failed", "turn", s.turns.Load()+1, "error", err)
		return Fallback
	}
	if strings.TrimSpace(reply) == "" {
		a.logger.Warn("chat reply was empty", "turn", s.turns.Load()+1)
		return Fallback
	}
	s.turns.Add(1)
	return reply
}

// Turns reports how many exchanges succeeded since the last reset.
func (s *Session) Turns() int {
	return int(s.turns.Load())
}

// Reset drops the provider conversation; the next Send starts afresh.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = nil
	s.turns.Store(0)
}
