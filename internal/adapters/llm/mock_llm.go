package llm

import (
	"context"
	"strings"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// MockStreamer is a scripted domain.ChatStreamer for dev and tests.
// Fragments are emitted in order; when Err is set it is delivered after
// FailAfter fragments instead of a clean close.
type MockStreamer struct {
	Fragments []string
	Err       error
	FailAfter int
}

// NewMockStreamer gives the mock some personality for local dev.
func NewMockStreamer() *MockStreamer {
	return &MockStreamer{}
}

func (m *MockStreamer) StreamReply(ctx context.Context, prompt string, _ []*domain.Message) (<-chan domain.Fragment, error) {
	frags := m.Fragments
	if frags == nil {
		frags = defaultReply(prompt)
	}

	out := make(chan domain.Fragment)
	go func() {
		defer close(out)
		for i, f := range frags {
			if m.Err != nil && i >= m.FailAfter {
				break
			}
			select {
			case out <- domain.Fragment{Text: f}:
			case <-ctx.Done():
				return
			}
		}
		if m.Err != nil {
			select {
			case out <- domain.Fragment{Err: m.Err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

func defaultReply(prompt string) []string {
	if strings.HasPrefix(prompt, "SYSTEM_COMMAND:") {
		return []string{"Ainda ", "estou ", "aqui. ", "O silêncio ", "também ", "fala. 🌹"}
	}
	return []string{"Te escuto. ", "O que isso ", "desperta ", "em você?"}
}
