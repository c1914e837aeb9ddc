package models

import "time"

// RoleName enumerates the seeded RBAC roles.
type RoleName string

const (
	RoleAdmin        RoleName = "ADMIN"
	RoleFaculty      RoleName = "FACULTY"
	RoleDean         RoleName = "DEAN"
	RoleStaff        RoleName = "STAFF"
	RoleProgramChair RoleName = "PROGRAM_CHAIR"
)

// Role is a seeded role row.
type Role struct {
	RoleID int64    `db:"role_id" json:"role_id"`
	Name   RoleName `db:"name" json:"name"`
}

// User is an application account stored in the users table.
type User struct {
	UserID       int64     `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RoleID       int64     `db:"role_id" json:"role_id"`
	ProfilePic   *string   `db:"profile_pic" json:"profile_pic,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	IsApproved   bool      `db:"is_approved" json:"is_approved"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserDetail joins the user row with its role name and profile.
type UserDetail struct {
	User
	RoleName     RoleName   `db:"role_name" json:"role_name"`
	ProfileType  *string    `db:"profile_type" json:"profile_type,omitempty"`
	DepartmentID *int64     `db:"department_id" json:"department_id,omitempty"`
	TermStart    *time.Time `db:"term_start" json:"term_start,omitempty"`
	TermEnd      *time.Time `db:"term_end" json:"term_end,omitempty"`
	Designation  *string    `db:"designation" json:"designation,omitempty"`
	ContactEmail *string    `db:"contact_email" json:"contact_email,omitempty"`
}

// UserProfile is the 1:1 extension of a user.
type UserProfile struct {
	ProfileID    int64      `db:"profile_id" json:"profile_id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	ProfileType  string     `db:"profile_type" json:"profile_type"`
	DepartmentID *int64     `db:"department_id" json:"department_id,omitempty"`
	TermStart    *time.Time `db:"term_start" json:"term_start,omitempty"`
	TermEnd      *time.Time `db:"term_end" json:"term_end,omitempty"`
	Designation  *string    `db:"designation" json:"designation,omitempty"`
	ContactEmail *string    `db:"contact_email" json:"contact_email,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserApproval is one append-only approval audit row.
type UserApproval struct {
	ApprovalID   int64     `db:"approval_id" json:"approval_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ApprovalNote string    `db:"approval_note" json:"approval_note"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest is the POST /auth/register payload. Registration creates
// the user, its profile, and the pending-approval audit row together.
type RegisterRequest struct {
	FirstName     string `json:"first_name" validate:"required,min=2"`
	MiddleInitial string `json:"middle_initial"`
	LastName      string `json:"last_name" validate:"required,min=2"`
	Suffix        string `json:"suffix"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	DepartmentID  int64  `json:"department" validate:"required,gt=0"`
	SchoolTermID  int64  `json:"school_term" validate:"required,gt=0"`
	ProfileType   string `json:"profile_type" validate:"omitempty,oneof=FACULTY DEAN STAFF PROGRAM_CHAIR"`
	Designation   string `json:"designation"`
}

// UpdateUserProfileRequest is the PUT /users/:id/profile payload; it touches
// both the user row and the profile row.
type UpdateUserProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	ProfilePic   *string `json:"profile_pic"`
	Bio          *string `json:"bio"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	Designation  *string `json:"designation"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
}

// ResetPasswordsRequest rehashes one password for every account.
type ResetPasswordsRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// UserFilter captures list filters for users.
type UserFilter struct {
	RoleID     *int64
	IsApproved *bool
	Search     string
	Page       int
	Limit      int
}
