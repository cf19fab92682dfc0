package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockJwtManager is a mock of the JWTManager, used to simulate token failures in tests.
type MockJwtManager struct {
	mock.Mock
}

// GenerateJWT returns a mock JWT string and an optional error.
func (m *MockJwtManager) GenerateJWT(userId uuid.UUID) (string, error) {
	args := m.Called(userId)
	return args.String(0), args.Error(1)
}

// ValidateJWT returns a mock user id and an optional error.
func (m *MockJwtManager) ValidateJWT(tokenString string) (uuid.UUID, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
