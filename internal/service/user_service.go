package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

const pendingApprovalNote = "Faculty registration pending admin approval"

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int64, error)
	FindByID(ctx context.Context, id int64) (*models.UserDetail, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Register(ctx context.Context, user *models.User, profile *models.UserProfile, approvalNote string) error
	Approve(ctx context.Context, id int64, note string) (bool, error)
	ListApprovals(ctx context.Context, userID int64) ([]models.UserApproval, error)
	UpdateProfile(ctx context.Context, user *models.User, profile *models.UserProfile) error
	ResetAllPasswords(ctx context.Context, passwordHash string) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type roleRepository interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByName(ctx context.Context, name models.RoleName) (*models.Role, error)
}

// UserService orchestrates account registration, approval, and maintenance.
type UserService struct {
	repo        userRepository
	roles       roleRepository
	terms       termFinder
	validator   *validator.Validate
	logger      *zap.Logger
	bcryptCost  int
	defaultRole models.RoleName
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, roles roleRepository, terms termFinder, validate *validator.Validate, logger *zap.Logger, bcryptCost int, defaultRole models.RoleName) *UserService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if defaultRole == "" {
		defaultRole = models.RoleFaculty
	}
	return &UserService{repo: repo, roles: roles, terms: terms, validator: validate, logger: logger, bcryptCost: bcryptCost, defaultRole: defaultRole}
}

// List returns users plus pagination data.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapRepo(err, "failed to list users")
	}
	return users, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns a user by id with role and profile context.
func (s *UserService) Get(ctx context.Context, id int64) (*models.UserDetail, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, wrapRepo(err, "failed to load user")
	}
	return user, nil
}

// Register creates the account, its profile, and the pending-approval audit
// row in one transaction. The account starts unapproved.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, wrapRepo(err, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Email already registered")
	}

	roleName := s.defaultRole
	if req.ProfileType != "" {
		roleName = models.RoleName(req.ProfileType)
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Unknown role")
		}
		return nil, wrapRepo(err, "failed to load role")
	}

	term, err := s.terms.FindByID(ctx, req.SchoolTermID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "School term does not exist")
		}
		return nil, wrapRepo(err, "failed to load school term")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         models.AssembleFullName(req.FirstName, req.MiddleInitial, req.LastName, req.Suffix),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		RoleID:       role.RoleID,
	}
	departmentID := req.DepartmentID
	termStart, termEnd := term.StartDate, term.EndDate
	profile := &models.UserProfile{
		ProfileType:  string(role.Name),
		DepartmentID: &departmentID,
		TermStart:    &termStart,
		TermEnd:      &termEnd,
		Designation:  normalizeOptional(&req.Designation),
		ContactEmail: &user.Email,
	}

	if err := s.repo.Register(ctx, user, profile, pendingApprovalNote); err != nil {
		return nil, wrapRepo(err, "failed to register user")
	}

	detail := &models.UserDetail{User: *user, RoleName: role.Name}
	detail.ProfileType = &profile.ProfileType
	detail.DepartmentID = profile.DepartmentID
	detail.TermStart = profile.TermStart
	detail.TermEnd = profile.TermEnd
	detail.Designation = profile.Designation
	detail.ContactEmail = profile.ContactEmail
	return detail, nil
}

// Approve marks the user approved and appends one audit row. Repeated
// approvals append additional rows.
func (s *UserService) Approve(ctx context.Context, id int64, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		note = "Approved by admin"
	}
	found, err := s.repo.Approve(ctx, id, note)
	if err != nil {
		return wrapRepo(err, "failed to approve user")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	return nil
}

// Approvals returns the approval audit trail for one user.
func (s *UserService) Approvals(ctx context.Context, userID int64) ([]models.UserApproval, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	approvals, err := s.repo.ListApprovals(ctx, userID)
	if err != nil {
		return nil, wrapRepo(err, "failed to list approvals")
	}
	return approvals, nil
}

// UpdateProfile mutates the user row and its profile row.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req models.UpdateUserProfileRequest) (*models.UserDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		exists, err := s.repo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, wrapRepo(err, "failed to check email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already registered")
		}
		detail.Email = email
	}
	if req.Name != nil {
		detail.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		detail.Phone = normalizeOptional(req.Phone)
	}
	if req.ProfilePic != nil {
		detail.ProfilePic = normalizeOptional(req.ProfilePic)
	}
	if req.Bio != nil {
		detail.Bio = normalizeOptional(req.Bio)
	}

	profile := &models.UserProfile{
		UserID:       id,
		DepartmentID: detail.DepartmentID,
		Designation:  detail.Designation,
		ContactEmail: detail.ContactEmail,
	}
	if profile.ContactEmail == nil {
		profile.ContactEmail = &detail.Email
	}
	if req.DepartmentID != nil {
		profile.DepartmentID = req.DepartmentID
		detail.DepartmentID = req.DepartmentID
	}
	if req.Designation != nil {
		profile.Designation = normalizeOptional(req.Designation)
		detail.Designation = profile.Designation
	}
	if req.ContactEmail != nil {
		profile.ContactEmail = normalizeOptional(req.ContactEmail)
		detail.ContactEmail = profile.ContactEmail
	}

	if err := s.repo.UpdateProfile(ctx, &detail.User, profile); err != nil {
		return nil, wrapRepo(err, "failed to update profile")
	}
	return detail, nil
}

// ResetAllPasswords rehashes one password for every account and returns the
// number of accounts touched.
func (s *UserService) ResetAllPasswords(ctx context.Context, req models.ResetPasswordsRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset payload")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	count, err := s.repo.ResetAllPasswords(ctx, string(hash))
	if err != nil {
		return 0, wrapRepo(err, "failed to reset passwords")
	}
	s.logger.Info("bulk password reset", zap.Int64("accounts", count))
	return count, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapRepo(err, "failed to delete user")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	return nil
}

// Roles lists the seeded roles.
func (s *UserService) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, wrapRepo(err, "failed to list roles")
	}
	return roles, nil
}
