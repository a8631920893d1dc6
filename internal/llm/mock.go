package llm

import (
	"context"
	"sync"
)

// MockResponse is one canned reply of a MockProvider.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider replays canned responses in order and repeats the last one
// once they run out. Requests are recorded.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
	next      int
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock. With no responses it returns empty content.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Complete records req and returns the next canned response.
func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.responses) == 0 {
		return &Response{Model: "mock"}, nil
	}
	r := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{Content: r.Content, Model: "mock", Usage: Usage{InputTokens: 10, OutputTokens: 5}}, nil
}

// Calls returns the recorded requests.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
