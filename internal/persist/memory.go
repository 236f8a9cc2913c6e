package persist

// MemorySink keeps values in a map. Nothing survives the process; it backs
// the memory backend and tests.
type MemorySink struct {
	values map[string]string
}

// Compile-time interface check.
var _ Sink = (*MemorySink)(nil)

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemorySink) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemorySink) Set(key, value string) error {
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing a missing key succeeds.
func (m *MemorySink) Remove(key string) error {
	delete(m.values, key)
	return nil
}
