package mocks

import (
	"context"

	"blog-server/internal/managers"

	"github.com/stretchr/testify/mock"
)

type MockEmailVerifier struct {
	mock.Mock
}

func (m *MockEmailVerifier) Verify(ctx context.Context, email string) (managers.Verdict, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(managers.Verdict), args.Error(1)
}
