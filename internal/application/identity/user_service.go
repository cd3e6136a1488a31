package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caterflow/backend/internal/domain/identity"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// UserService handles user administration. All operations are reserved
// for admins; the HTTP layer enforces that.
type UserService struct {
	userRepo identity.UserRepository
	siteRepo partner.SiteRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	siteRepo partner.SiteRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		siteRepo: siteRepo,
		logger:   logger,
	}
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	if err := s.verifySites(ctx, req.SiteIDs); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if len(req.SiteIDs) > 0 {
		if err := user.RestrictToSites(req.SiteIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if len(user.SiteIDs) > 0 {
		if err := s.userRepo.ReplaceSites(ctx, user.ID, user.SiteIDs); err != nil {
			s.logger.Error("Failed to save site restrictions for new user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	return ToUserResponse(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List returns users matching the filter, paginated
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[*UserResponse], error) {
	var role *identity.Role
	if filter.Role != "" {
		r := identity.Role(filter.Role)
		if !r.IsValid() {
			return nil, shared.NewValidationError("Invalid role filter")
		}
		role = &r
	}

	var status *identity.UserStatus
	if filter.Status != "" {
		st := identity.UserStatus(filter.Status)
		status = &st
	}

	page, err := s.userRepo.FindAll(ctx, identity.UserFilter{
		Filter: buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Search: filter.Search,
		Role:   role,
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponses(page), nil
}

// Update applies a partial update to a user
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.String("user_id", id.String()))

	return ToUserResponse(user), nil
}

// AssignSites replaces the user's site restrictions. An empty list
// removes all restrictions, granting access to every site.
func (s *UserService) AssignSites(ctx context.Context, id uuid.UUID, req AssignSitesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.verifySites(ctx, req.SiteIDs); err != nil {
		return nil, err
	}

	if err := user.RestrictToSites(req.SiteIDs); err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceSites(ctx, user.ID, user.SiteIDs); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User site restrictions replaced",
		zap.String("user_id", id.String()),
		zap.Int("site_count", len(user.SiteIDs)))

	return ToUserResponse(user), nil
}

// Activate re-enables a deactivated or locked user. Also clears any
// login lock, so it doubles as an explicit unlock.
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User activated", zap.String("user_id", id.String()))

	return ToUserResponse(user), nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))

	return ToUserResponse(user), nil
}

// ResetPassword sets a new password without the old-password check
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", id.String()))

	return nil
}

// Delete soft-deletes a user. Documents authored by the user keep their
// authorship stamps.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))

	return nil
}

func (s *UserService) verifySites(ctx context.Context, siteIDs []uuid.UUID) error {
	if len(siteIDs) == 0 {
		return nil
	}

	sites, err := s.siteRepo.FindByIDs(ctx, siteIDs)
	if err != nil {
		return err
	}

	seen := make(map[uuid.UUID]struct{}, len(siteIDs))
	for _, id := range siteIDs {
		seen[id] = struct{}{}
	}
	if len(sites) < len(seen) {
		return shared.NewDomainError("NOT_FOUND", "One or more sites do not exist")
	}
	return nil
}

func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
	}
}
