package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

// UserRepository provides database access for accounts, profiles, and the
// approval audit trail.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user with its role name by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDetail, error) {
	const query = `SELECT u.user_id, u.name, u.email, u.password_hash, u.role_id, u.profile_pic, u.phone, u.bio, u.is_approved, u.created_at, u.updated_at, r.name AS role_name
		FROM users u JOIN roles r ON r.role_id = u.role_id
		WHERE LOWER(u.email) = LOWER($1) LIMIT 1`
	var user models.UserDetail
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user with its role name and profile columns.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.UserDetail, error) {
	const query = `SELECT u.user_id, u.name, u.email, u.password_hash, u.role_id, u.profile_pic, u.phone, u.bio, u.is_approved, u.created_at, u.updated_at,
			r.name AS role_name, p.profile_type, p.department_id, p.term_start, p.term_end, p.designation, p.contact_email
		FROM users u
		JOIN roles r ON r.role_id = u.role_id
		LEFT JOIN user_profiles p ON p.user_id = u.user_id
		WHERE u.user_id = $1 LIMIT 1`
	var user models.UserDetail
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the filter, newest first, with a total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int64, error) {
	base := "FROM users u JOIN roles r ON r.role_id = u.role_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.RoleID != nil {
		conditions = append(conditions, fmt.Sprintf("u.role_id = $%d", len(args)+1))
		args = append(args, *filter.RoleID)
	}
	if filter.IsApproved != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_approved = $%d", len(args)+1))
		args = append(args, *filter.IsApproved)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := clampPage(filter.Page, filter.Limit)

	query := fmt.Sprintf("SELECT u.user_id, u.name, u.email, u.password_hash, u.role_id, u.profile_pic, u.phone, u.bio, u.is_approved, u.created_at, u.updated_at, r.name AS role_name %s ORDER BY u.created_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var users []models.UserDetail
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// ExistsByEmail checks whether another user already uses the email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID > 0 {
		query += " AND user_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// Register inserts the user, its profile, and the pending-approval audit row
// in one transaction. A failure at any step rolls the whole registration back.
func (r *UserRepository) Register(ctx context.Context, user *models.User, profile *models.UserProfile, approvalNote string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const insertUser = `INSERT INTO users (name, email, password_hash, role_id, profile_pic, phone, bio, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING user_id`
	if err = tx.GetContext(ctx, &user.UserID, insertUser, user.Name, user.Email, user.PasswordHash, user.RoleID, user.ProfilePic, user.Phone, user.Bio, user.IsApproved, user.CreatedAt, user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "Email already registered")
		} else {
			err = fmt.Errorf("insert user: %w", err)
		}
		return err
	}

	profile.UserID = user.UserID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	const insertProfile = `INSERT INTO user_profiles (user_id, profile_type, department_id, term_start, term_end, designation, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING profile_id`
	if err = tx.GetContext(ctx, &profile.ProfileID, insertProfile, profile.UserID, profile.ProfileType, profile.DepartmentID, profile.TermStart, profile.TermEnd, profile.Designation, profile.ContactEmail, profile.CreatedAt, profile.UpdatedAt); err != nil {
		err = fmt.Errorf("insert user profile: %w", err)
		return err
	}

	const insertApproval = `INSERT INTO user_approvals (user_id, approval_note, created_at) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertApproval, user.UserID, approvalNote, now); err != nil {
		err = fmt.Errorf("insert approval note: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit register tx: %w", err)
	}
	return nil
}

// Approve sets the approval flag and appends one audit row in a transaction.
// It reports whether the user existed.
func (r *UserRepository) Approve(ctx context.Context, id int64, note string) (found bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE users SET is_approved = TRUE, updated_at = $2 WHERE user_id = $1`, id, now)
	if err != nil {
		return false, fmt.Errorf("approve user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve user: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO user_approvals (user_id, approval_note, created_at) VALUES ($1, $2, $3)`, id, note, now); err != nil {
		return false, fmt.Errorf("insert approval note: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit approve tx: %w", err)
	}
	return true, nil
}

// ListApprovals returns the audit rows for a user, newest first.
func (r *UserRepository) ListApprovals(ctx context.Context, userID int64) ([]models.UserApproval, error) {
	const query = `SELECT approval_id, user_id, approval_note, created_at FROM user_approvals WHERE user_id = $1 ORDER BY created_at DESC`
	var approvals []models.UserApproval
	if err := r.db.SelectContext(ctx, &approvals, query, userID); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return approvals, nil
}

// UpdateProfile mutates the user row and its profile row together.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User, profile *models.UserProfile) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	user.UpdatedAt = now
	profile.UpdatedAt = now

	const updateUser = `UPDATE users SET name = :name, email = :email, phone = :phone, profile_pic = :profile_pic, bio = :bio, updated_at = :updated_at WHERE user_id = :user_id`
	if _, err = tx.NamedExecContext(ctx, updateUser, user); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "Email already registered")
		} else {
			err = fmt.Errorf("update user: %w", err)
		}
		return err
	}

	const updateProfile = `UPDATE user_profiles SET department_id = :department_id, designation = :designation, contact_email = :contact_email, updated_at = :updated_at WHERE user_id = :user_id`
	if _, err = tx.NamedExecContext(ctx, updateProfile, profile); err != nil {
		err = fmt.Errorf("update user profile: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit profile tx: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash for one user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ResetAllPasswords sets every account to the same hash and returns the
// number of rows touched.
func (r *UserRepository) ResetAllPasswords(ctx context.Context, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = $2`, passwordHash, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("reset passwords: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset passwords: %w", err)
	}
	return affected, nil
}

// Delete removes a user; it reports whether a row was deleted.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return affected > 0, nil
}
