package database

func (db *PgCourseRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, email, created_at, updated_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Name,
		&user.EmailAddress,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgCourseRepository) GetCourseById(courseId int) (Course, error) {
	row := db.conn.QueryRow(
		"SELECT id, title, description, instructor_id, created_at, updated_at FROM courses "+
			"WHERE id = $1 LIMIT 1",
		courseId,
	)

	var course Course
	err := row.Scan(
		&course.Id,
		&course.Title,
		&course.Description,
		&course.InstructorId,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	return course, err
}

func (db *PgCourseRepository) EnrollmentExists(accountId, courseId int) (bool, error) {
	row := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM enrollments WHERE account_id = $1 AND course_id = $2)",
		accountId,
		courseId,
	)

	var exists bool
	err := row.Scan(&exists)

	return exists, err
}

func (db *PgCourseRepository) ListEnrolledAccountIds(courseId int) ([]int, error) {
	rows, err := db.conn.Query(
		"SELECT account_id FROM enrollments WHERE course_id = $1",
		courseId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accountIds []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		accountIds = append(accountIds, id)
	}

	return accountIds, rows.Err()
}
