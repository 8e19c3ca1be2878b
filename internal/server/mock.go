package server

import "github.com/stretchr/testify/mock"

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ChatDelivered(courseId int, msg *ServerMessage) {
	m.Called(courseId, msg)
}
