// Package membership answers whether a user may participate in a
// course's chat room. It always queries the canonical course records;
// the roster cache used for unread fan-out is never consulted here.
package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/coursekit/coursechat/internal/database"
)

type Role int

const (
	RoleNone Role = iota
	RoleStudent
	RoleInstructor
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	default:
		return "none"
	}
}

// Member reports whether the role grants access to the course room.
func (r Role) Member() bool {
	return r == RoleStudent || r == RoleInstructor
}

type Oracle interface {
	IsMember(ctx context.Context, userId, courseId int) (Role, error)
}

type Service struct {
	log *log.Logger
	db  database.CourseRepository
}

func NewService(logger *log.Logger, db database.CourseRepository) *Service {
	return &Service{
		log: logger,
		db:  db,
	}
}

// IsMember resolves the user's role in the course: the course's
// instructor, an enrolled student, or neither. A missing user or
// course resolves to RoleNone rather than an error.
func (s *Service) IsMember(ctx context.Context, userId, courseId int) (Role, error) {
	if _, err := s.db.GetAccountById(userId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("get account: %w", err)
	}

	course, err := s.db.GetCourseById(courseId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("get course: %w", err)
	}

	if course.InstructorId == userId {
		return RoleInstructor, nil
	}

	enrolled, err := s.db.EnrollmentExists(userId, courseId)
	if err != nil {
		return RoleNone, fmt.Errorf("enrollment exists: %w", err)
	}
	if enrolled {
		return RoleStudent, nil
	}

	return RoleNone, nil
}
