package code

import (
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of CodeGenerator
type MockGenerator struct {
	mock.Mock
}

// NewMockGenerator creates a new MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
