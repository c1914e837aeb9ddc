package models

import "time"

// SchoolTerm is one academic period; (school_year, semester) is unique.
type SchoolTerm struct {
	TermID     int64     `db:"term_id" json:"term_id"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	Semester   string    `db:"semester" json:"semester"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreateSchoolTermRequest is the POST /school-terms payload. Dates arrive as
// YYYY-MM-DD strings and are parsed by the service.
type CreateSchoolTermRequest struct {
	SchoolYear string `json:"school_year" validate:"required,min=4"`
	Semester   string `json:"semester" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateSchoolTermRequest mutates only the provided fields.
type UpdateSchoolTermRequest struct {
	SchoolYear *string `json:"school_year" validate:"omitempty,min=4"`
	Semester   *string `json:"semester"`
	StartDate  *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive   *bool   `json:"is_active"`
}

// SchoolTermFilter captures list filters for school terms.
type SchoolTermFilter struct {
	SchoolYear string
	IsActive   *bool
	Page       int
	Limit      int
}
