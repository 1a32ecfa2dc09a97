package helpers

import (
	"sync"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// MockVisibilityProvider lets everyone see everyone except the pairs a test hides
type MockVisibilityProvider struct {
	mu     sync.RWMutex
	hidden map[[2]shared.DivisionID]bool
}

// NewMockVisibilityProvider creates a provider with nothing hidden
func NewMockVisibilityProvider() *MockVisibilityProvider {
	return &MockVisibilityProvider{hidden: make(map[[2]shared.DivisionID]bool)}
}

// Hide makes a and b invisible to each other
func (m *MockVisibilityProvider) Hide(a, b shared.DivisionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden[[2]shared.DivisionID{a, b}] = true
	m.hidden[[2]shared.DivisionID{b, a}] = true
}

// Reveal undoes Hide
func (m *MockVisibilityProvider) Reveal(a, b shared.DivisionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hidden, [2]shared.DivisionID{a, b})
	delete(m.hidden, [2]shared.DivisionID{b, a})
}

func (m *MockVisibilityProvider) VisiblePeers(observer *division.Division, all []*division.Division) []*division.Division {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*division.Division
	for _, d := range all {
		if d.ID() == observer.ID() || d.IsDestroyed() {
			continue
		}
		if m.hidden[[2]shared.DivisionID{observer.ID(), d.ID()}] {
			continue
		}
		out = append(out, d)
	}
	return out
}
