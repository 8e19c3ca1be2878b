package database

import "time"

type User struct {
	Id           int
	Name         string
	EmailAddress string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Course struct {
	Id           int
	Title        string
	Description  string
	InstructorId int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
