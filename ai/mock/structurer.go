package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
)

// MockStructurer is a test double for ai.Structurer.
type MockStructurer struct {
	// StructureFunc is called by Structure if set.
	// If nil, content is split on blank lines.
	StructureFunc func(ctx context.Context, req ai.StructureRequest) ([]core.Segment, error)

	mu        sync.Mutex
	callCount int
	files     []string
}

var _ ai.Structurer = (*MockStructurer)(nil)

// NewMockStructurer creates a mock structurer with default paragraph splitting.
// Note: Returns concrete type to allow test assertions.
func NewMockStructurer() *MockStructurer {
	return &MockStructurer{}
}

// Structure records the call and returns StructureFunc's result or one
// segment per paragraph.
func (m *MockStructurer) Structure(ctx context.Context, req ai.StructureRequest) ([]core.Segment, error) {
	m.mu.Lock()
	m.callCount++
	m.files = append(m.files, req.FileName)
	fn := m.StructureFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	page := int32(1)
	var segments []core.Segment
	for _, para := range strings.Split(string(req.Content), "\n\n") {
		if text := strings.TrimSpace(para); text != "" {
			segments = append(segments, core.Segment{Text: text, PageNumber: &page})
		}
	}
	return segments, nil
}

// CallCount returns the number of times Structure was called.
func (m *MockStructurer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Files returns the file names passed to Structure, in call order.
func (m *MockStructurer) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.files...)
}

// Reset clears recorded calls and injected behavior.
func (m *MockStructurer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.files = nil
	m.StructureFunc = nil
}

// Page returns a pointer to n for building segments in tests.
func Page(n int32) *int32 {
	return &n
}
