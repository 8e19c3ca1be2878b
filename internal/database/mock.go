package database

import (
	"github.com/stretchr/testify/mock"
)

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockCourseRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCourseRepository) GetCourseById(courseId int) (Course, error) {
	args := m.Called(courseId)
	return args.Get(0).(Course), args.Error(1)
}
func (m *MockCourseRepository) EnrollmentExists(accountId, courseId int) (bool, error) {
	args := m.Called(accountId, courseId)
	return args.Bool(0), args.Error(1)
}
func (m *MockCourseRepository) ListEnrolledAccountIds(courseId int) ([]int, error) {
	args := m.Called(courseId)
	if ids, ok := args.Get(0).([]int); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
