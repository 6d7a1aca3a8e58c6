package checklist

import (
	"crypto/sha256"
	"sync"

	"github.com/goccy/go-json"
	"github.com/mbolis/os-portal/model"
)

// Memo caches views by the content of the forms they were built from.
// When full, it starts over from empty.
type Memo struct {
	mu       sync.Mutex
	capacity int
	views    map[[sha256.Size]byte]View
	hits     int
}

func NewMemo(capacity int) *Memo {
	if capacity < 1 {
		capacity = 1
	}
	return &Memo{
		capacity: capacity,
		views:    make(map[[sha256.Size]byte]View, capacity),
	}
}

// View returns the view of forms, building it unless identical forms were
// seen before.
func (m *Memo) View(forms []model.Form) View {
	body, err := json.Marshal(forms)
	if err != nil {
		return Build(forms)
	}
	key := sha256.Sum256(body)

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.views[key]; ok {
		m.hits++
		return v
	}

	v := Build(forms)
	if len(m.views) >= m.capacity {
		m.views = make(map[[sha256.Size]byte]View, m.capacity)
	}
	m.views[key] = v
	return v
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}
