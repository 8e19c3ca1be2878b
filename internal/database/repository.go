package database

// CourseRepository is the canonical store of users, courses and
// enrollments. It is owned by the wider platform; this service only
// queries it to answer membership questions and to resolve the
// enrolled-user roster for unread fan-out.
type CourseRepository interface {
	Ping() error
	GetAccountById(accountId int) (User, error)
	GetCourseById(courseId int) (Course, error)
	EnrollmentExists(accountId, courseId int) (bool, error)
	ListEnrolledAccountIds(courseId int) ([]int, error)
}
