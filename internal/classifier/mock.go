package classifier

import (
	"context"
	"sync"
)

// Mock is a deterministic Classifier for testing. It returns the configured
// probability (or error) and records every feature vector it receives.
type Mock struct {
	mu          sync.Mutex
	Probability float64
	Err         error
	Calls       [][]float64
}

// NewMock creates a Mock returning p.
func NewMock(p float64) *Mock {
	return &Mock{Probability: p}
}

// NewFailingMock creates a Mock returning err.
func NewFailingMock(err error) *Mock {
	return &Mock{Err: err}
}

func (m *Mock) Predict(_ context.Context, features []float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := make([]float64, len(features))
	copy(rec, features)
	m.Calls = append(m.Calls, rec)

	if m.Err != nil {
		return 0, m.Err
	}
	return m.Probability, nil
}

// CallCount returns the number of Predict calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
