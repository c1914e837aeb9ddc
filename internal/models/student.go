package models

import (
	"strings"
	"time"
)

// Student is a learner record, independent of the users table.
type Student struct {
	StudentID     int64      `db:"student_id" json:"student_id"`
	StudentNumber string     `db:"student_number" json:"student_number"`
	FullName      string     `db:"full_name" json:"full_name"`
	Gender        *string    `db:"gender" json:"gender,omitempty"`
	BirthDate     *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	ContactEmail  string     `db:"contact_email" json:"contact_email"`
	StudentPhoto  *string    `db:"student_photo" json:"student_photo,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateStudentRequest is the POST /students payload. The stored full name is
// assembled from the name parts.
type CreateStudentRequest struct {
	StudentNumber string  `json:"student_number" validate:"required,student_number"`
	FirstName     string  `json:"first_name" validate:"required,min=2"`
	MiddleInitial string  `json:"middle_initial"`
	LastName      string  `json:"last_name" validate:"required,min=2"`
	Suffix        string  `json:"suffix"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BirthDate     *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email         string  `json:"email" validate:"required,email"`
	StudentPhoto  *string `json:"student_photo"`
}

// UpdateStudentRequest mutates only the provided fields.
type UpdateStudentRequest struct {
	StudentNumber *string `json:"student_number" validate:"omitempty,student_number"`
	FullName      *string `json:"full_name" validate:"omitempty,min=2"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BirthDate     *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email         *string `json:"email" validate:"omitempty,email"`
	StudentPhoto  *string `json:"student_photo"`
}

// StudentFilter captures list filters for students.
type StudentFilter struct {
	Search string
	Gender string
	Page   int
	Limit  int
}

// AssembleFullName joins name parts into a display name, dropping blanks. A
// one-letter middle initial gets a trailing period.
func AssembleFullName(first, middle, last, suffix string) string {
	middle = strings.TrimSpace(middle)
	if len(middle) == 1 {
		middle += "."
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{first, middle, last, suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
