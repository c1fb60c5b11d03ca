// Package settings provides the key/value persistence the application
// store uses to remember UI state between runs (last repository, pane
// widths). Consumers depend on the Store interface; the file-backed
// implementation lives in file.go.
package settings

// Well-known setting keys.
const (
	// KeyLastRepository is the path of the most recently selected repository.
	KeyLastRepository = "last-repository"
	// KeySidebarWidth is the persisted width of the file list pane.
	KeySidebarWidth = "sidebar-width"
)

// Store persists string values by key. Get returns ok=false for keys
// that were never set.
type Store interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
}

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.values[key] = value
	return nil
}
