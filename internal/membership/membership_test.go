package membership

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/coursekit/coursechat/internal/database"
	"github.com/coursekit/coursechat/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIsMember(t *testing.T) {
	var (
		user   = database.User{Id: 7, Name: "testuser"}
		course = database.Course{Id: 42, Title: "Intro to Go", InstructorId: 1}
	)

	tcases := []struct {
		name         string
		setup        func(db *database.MockCourseRepository)
		userId       int
		expectedRole Role
		expectError  bool
	}{
		{
			name:   "enrolled student",
			userId: user.Id,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", user.Id).Return(user, nil)
				db.On("GetCourseById", course.Id).Return(course, nil)
				db.On("EnrollmentExists", user.Id, course.Id).Return(true, nil)
			},
			expectedRole: RoleStudent,
		},
		{
			name:   "course instructor",
			userId: course.InstructorId,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", course.InstructorId).Return(database.User{Id: course.InstructorId}, nil)
				db.On("GetCourseById", course.Id).Return(course, nil)
			},
			expectedRole: RoleInstructor,
		},
		{
			name:   "not enrolled",
			userId: user.Id,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", user.Id).Return(user, nil)
				db.On("GetCourseById", course.Id).Return(course, nil)
				db.On("EnrollmentExists", user.Id, course.Id).Return(false, nil)
			},
			expectedRole: RoleNone,
		},
		{
			name:   "unknown user",
			userId: 99,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", 99).Return(database.User{}, sql.ErrNoRows)
			},
			expectedRole: RoleNone,
		},
		{
			name:   "unknown course",
			userId: user.Id,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", user.Id).Return(user, nil)
				db.On("GetCourseById", course.Id).Return(database.Course{}, sql.ErrNoRows)
			},
			expectedRole: RoleNone,
		},
		{
			name:   "database error",
			userId: user.Id,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", user.Id).Return(user, nil)
				db.On("GetCourseById", course.Id).Return(database.Course{}, errors.New("connection refused"))
			},
			expectedRole: RoleNone,
			expectError:  true,
		},
		{
			name:   "enrollment query error",
			userId: user.Id,
			setup: func(db *database.MockCourseRepository) {
				db.On("GetAccountById", user.Id).Return(user, nil)
				db.On("GetCourseById", course.Id).Return(course, nil)
				db.On("EnrollmentExists", user.Id, course.Id).Return(false, errors.New("connection refused"))
			},
			expectedRole: RoleNone,
			expectError:  true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			db := &database.MockCourseRepository{}
			defer db.AssertExpectations(t)
			tc.setup(db)

			svc := NewService(testutil.TestLogger(t), db)
			role, err := svc.IsMember(context.Background(), tc.userId, course.Id)
			if tc.expectError {
				assert.Error(t, err, "expected error from IsMember")
			} else {
				assert.NoError(t, err, "expected no error from IsMember")
			}
			assert.Equal(t, tc.expectedRole, role, "expected role to match")
		})
	}
}

func TestRoleMember(t *testing.T) {
	assert.True(t, RoleStudent.Member(), "expected student to be a member")
	assert.True(t, RoleInstructor.Member(), "expected instructor to be a member")
	assert.False(t, RoleNone.Member(), "expected none to not be a member")
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "student", RoleStudent.String())
	assert.Equal(t, "instructor", RoleInstructor.String())
	assert.Equal(t, "none", RoleNone.String())
}
