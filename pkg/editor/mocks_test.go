package editor

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
)

// --- Mocks ---

type mockImageEditor struct {
	mu       sync.Mutex
	requests []domain.EditRequest
	submitFn func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error)
}

func (m *mockImageEditor) SubmitInstructedEdit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.submitFn != nil {
		return m.submitFn(ctx, req)
	}
	return nil, nil
}

func (m *mockImageEditor) lastRequest() domain.EditRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type mockBackend struct {
	submitFn func(ctx context.Context, model string) (*domain.ImageResponse, error)
}

func (m *mockBackend) Submit(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error) {
	return m.submitFn(ctx, model)
}

// instantTimer は待たずに発火するタイマーです。
type instantTimer struct {
	c chan time.Time
}

func (t *instantTimer) Start(time.Duration) {
	t.c = make(chan time.Time, 1)
	t.c <- time.Time{}
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }
