package models

// Department is a top-level academic unit.
type Department struct {
	DepartmentID int64  `db:"department_id" json:"department_id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"department_abbreviation" json:"department_abbreviation"`
}

// Program is a degree program offered by a department.
type Program struct {
	ProgramID    int64   `db:"program_id" json:"program_id"`
	DepartmentID *int64  `db:"department_id" json:"department_id,omitempty"`
	Name         string  `db:"name" json:"name"`
	Description  *string `db:"description" json:"description,omitempty"`
	Abbreviation string  `db:"program_abbreviation" json:"program_abbreviation"`
}

// ProgramSpecialization is a track within a program.
type ProgramSpecialization struct {
	SpecializationID int64   `db:"specialization_id" json:"specialization_id"`
	ProgramID        int64   `db:"program_id" json:"program_id"`
	Name             string  `db:"name" json:"name"`
	Description      *string `db:"description" json:"description,omitempty"`
	Abbreviation     string  `db:"abbreviation" json:"abbreviation"`
}

// CreateDepartmentRequest is the POST /departments payload.
type CreateDepartmentRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Abbreviation string `json:"department_abbreviation" validate:"required,min=2"`
}

// UpdateDepartmentRequest mutates only the provided fields.
type UpdateDepartmentRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2"`
	Abbreviation *string `json:"department_abbreviation" validate:"omitempty,min=2"`
}

// CreateProgramRequest is the POST /programs payload.
type CreateProgramRequest struct {
	Name         string  `json:"name" validate:"required,min=2"`
	Abbreviation string  `json:"program_abbreviation" validate:"required,min=2"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	Description  *string `json:"description"`
}

// UpdateProgramRequest mutates only the provided fields.
type UpdateProgramRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2"`
	Abbreviation *string `json:"program_abbreviation" validate:"omitempty,min=2"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	Description  *string `json:"description"`
}

// CreateSpecializationRequest is the POST /specializations payload.
type CreateSpecializationRequest struct {
	ProgramID    int64   `json:"program_id" validate:"required,gt=0"`
	Name         string  `json:"name" validate:"required,min=2"`
	Abbreviation string  `json:"abbreviation" validate:"required,min=2"`
	Description  *string `json:"description"`
}

// UpdateSpecializationRequest mutates only the provided fields.
type UpdateSpecializationRequest struct {
	ProgramID    *int64  `json:"program_id" validate:"omitempty,gt=0"`
	Name         *string `json:"name" validate:"omitempty,min=2"`
	Abbreviation *string `json:"abbreviation" validate:"omitempty,min=2"`
	Description  *string `json:"description"`
}

// ProgramFilter captures list filters for programs.
type ProgramFilter struct {
	DepartmentID *int64
	Page         int
	Limit        int
}

// SpecializationFilter captures list filters for specializations.
type SpecializationFilter struct {
	ProgramID *int64
	Page      int
	Limit     int
}
