package membership

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) IsMember(ctx context.Context, userId, courseId int) (Role, error) {
	args := m.Called(userId, courseId)
	return args.Get(0).(Role), args.Error(1)
}
