package database

import (
	"database/sql"
)

type PgCourseRepository struct {
	conn *sql.DB
}

func NewPgCourseRepository(dsn string) (*PgCourseRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgCourseRepository{conn: db}, nil
}

func (db *PgCourseRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgCourseRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
