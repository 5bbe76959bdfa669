package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a testify mock for anything with Send(ctx, to, subject, body).
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
