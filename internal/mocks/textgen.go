package mocks

import (
	"context"
	"sync"
)

// MockTextGenerator returns canned text. Tests use it to exercise both the
// generated and the fallback paths without network access.
type MockTextGenerator struct {
	mu      sync.Mutex
	Text    string
	Err     error
	Prompts []string
}

// Generate records the prompt and returns the canned response
func (m *MockTextGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.Text, m.Err
}

// Calls is the number of prompts seen so far
func (m *MockTextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
