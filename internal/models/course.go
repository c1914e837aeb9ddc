package models

import "time"

// Course is a catalog course, optionally bound to a specialization and term.
type Course struct {
	CourseID         int64     `db:"course_id" json:"course_id"`
	Title            string    `db:"title" json:"title"`
	CourseCode       string    `db:"course_code" json:"course_code"`
	Description      *string   `db:"description" json:"description,omitempty"`
	TermID           *int64    `db:"term_id" json:"term_id,omitempty"`
	SpecializationID *int64    `db:"specialization_id" json:"specialization_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCourseRequest is the POST /courses payload.
type CreateCourseRequest struct {
	Title            string  `json:"title" validate:"required,min=2"`
	CourseCode       string  `json:"course_code" validate:"required,min=2"`
	Description      *string `json:"description"`
	TermID           *int64  `json:"term_id" validate:"omitempty,gt=0"`
	SpecializationID *int64  `json:"specialization_id" validate:"omitempty,gt=0"`
}

// UpdateCourseRequest mutates only the provided fields.
type UpdateCourseRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=2"`
	CourseCode       *string `json:"course_code" validate:"omitempty,min=2"`
	Description      *string `json:"description"`
	TermID           *int64  `json:"term_id" validate:"omitempty,gt=0"`
	SpecializationID *int64  `json:"specialization_id" validate:"omitempty,gt=0"`
}

// CourseFilter captures list filters for courses. ProgramID filters through
// the specialization's owning program.
type CourseFilter struct {
	ProgramID        *int64
	SpecializationID *int64
	TermID           *int64
	Page             int
	Limit            int
}
