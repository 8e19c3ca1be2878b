package unread

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) RecordDelivery(ctx context.Context, courseId, senderId int) error {
	args := m.Called(courseId, senderId)
	return args.Error(0)
}
func (m *MockStore) Unread(ctx context.Context, courseId, userId int) (int, error) {
	args := m.Called(courseId, userId)
	return args.Int(0), args.Error(1)
}
func (m *MockStore) Reset(ctx context.Context, courseId, userId int) error {
	args := m.Called(courseId, userId)
	return args.Error(0)
}
