package generator

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
)

// --- Mocks ---

type submitCall struct {
	model string
	cfg   domain.GenerateConfig
	req   domain.EditRequest
}

type mockBackend struct {
	mu       sync.Mutex
	calls    []submitCall
	submitFn func(call int, model string) (*domain.ImageResponse, error)
}

func (m *mockBackend) Submit(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, submitCall{model: model, cfg: cfg, req: req})
	n := len(m.calls)
	m.mu.Unlock()
	if m.submitFn != nil {
		return m.submitFn(n, model)
	}
	return &domain.ImageResponse{Data: []byte("ok"), Model: model}, nil
}

// fakeTimer は待たずに発火し、要求された待機時間を記録します。
type fakeTimer struct {
	mu     *sync.Mutex
	delays *[]time.Duration
	c      chan time.Time
}

func newFakeTimerFactory() (func() backoff.Timer, *[]time.Duration) {
	var mu sync.Mutex
	delays := &[]time.Duration{}
	return func() backoff.Timer {
		return &fakeTimer{mu: &mu, delays: delays}
	}, delays
}

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	*f.delays = append(*f.delays, d)
	f.mu.Unlock()
	f.c = make(chan time.Time, 1)
	f.c <- time.Time{}
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time { return f.c }

type mockContentGenerator struct {
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, config)
	}
	return imageResponse([]byte("fake")), nil
}

type mockAIClient struct {
	generateWithPartsFunc func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	if m.generateWithPartsFunc != nil {
		return m.generateWithPartsFunc(ctx, model, parts, opts)
	}
	return &gemini.Response{RawResponse: imageResponse([]byte("fake"))}, nil
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}}},
			},
		}},
	}
}
