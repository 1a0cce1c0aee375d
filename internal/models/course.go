package models

import "time"

// Course mirrors an LMS course context.
type Course struct {
	ID        int64     `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"course_name" json:"course_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is an LTI user identity. AnonID is the anonymized identifier the
// annotation store records as the annotation author; Name is only assumed
// unique within a single course roster.
type Profile struct {
	ID        int64     `db:"id" json:"id"`
	AnonID    string    `db:"anon_id" json:"anon_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
