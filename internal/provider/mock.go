package provider

import "context"

// Mock is a dummy provider that returns whatever data it was configured
// with. It is mainly useful for dialing in templates, since it lets you test
// input data against the desired output without touching a remote source.
type Mock struct {
	data string
}

// NewMock creates a Mock provider returning data.
func NewMock(data string) *Mock {
	return &Mock{data: data}
}

// Poll always reports the configured data as changed.
func (m *Mock) Poll(ctx context.Context) (string, bool, error) {
	return m.data, true, nil
}

// Query returns the configured data.
func (m *Mock) Query(ctx context.Context) (string, error) {
	return m.data, nil
}

// Close is a no-op; the mock has no backing store.
func (m *Mock) Close() error {
	return nil
}
