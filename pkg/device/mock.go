package device

import (
	"sync"
)

// Mock is an in-memory Platform. Changing its battery level notifies the
// registered watchers synchronously, like an OS broadcast would.
type Mock struct {
	mu        sync.Mutex
	identity  Identity
	version   OSVersion
	percent   int
	available bool
	watchers  map[int]func()
	nextID    int
}

var _ Platform = &Mock{}

// NewMock returns a Mock reporting identity and version, with a full battery.
func NewMock(identity Identity, version OSVersion) *Mock {
	return &Mock{
		identity:  identity,
		version:   version,
		percent:   100,
		available: true,
		watchers:  make(map[int]func()),
	}
}

// Identity implements Platform.
func (m *Mock) Identity() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// OSVersion implements Platform.
func (m *Mock) OSVersion() OSVersion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// BatteryPercentage implements Platform.
func (m *Mock) BatteryPercentage() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return 0, ErrUnavailable
	}
	return m.percent, nil
}

// WatchBattery implements Platform.
func (m *Mock) WatchBattery(onChange func()) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.watchers[id] = onChange

	return &mockSubscription{m: m, id: id}, nil
}

// SetBatteryPercentage sets the battery level and notifies watchers. Levels
// above 100 read as 100 and negative levels make the battery unavailable,
// as a host reading would.
func (m *Mock) SetBatteryPercentage(pct int) {
	normalized, err := normalizePercentage(float64(pct))

	m.mu.Lock()
	m.percent = normalized
	m.available = err == nil
	m.mu.Unlock()

	m.notify()
}

// SetBatteryUnavailable makes the battery unreadable and notifies watchers.
func (m *Mock) SetBatteryUnavailable() {
	m.mu.Lock()
	m.available = false
	m.mu.Unlock()

	m.notify()
}

// ActiveWatchers returns the number of registrations not yet cancelled.
func (m *Mock) ActiveWatchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

func (m *Mock) notify() {
	m.mu.Lock()
	callbacks := make([]func(), 0, len(m.watchers))
	for _, cb := range m.watchers {
		callbacks = append(callbacks, cb)
	}
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

type mockSubscription struct {
	m  *Mock
	id int
}

func (s *mockSubscription) Cancel() {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.watchers, s.id)
}
