package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles account management. All mutations are admin-gated.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a new account with login credentials
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.Allowed(identity.OpManageUsers) {
		return nil, shared.ErrForbidden
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	roles := make([]identity.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, identity.Role(r))
	}

	user, err := identity.NewUser(req.Username, req.Password, roles...)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, userID uuid.UUID) (*UserResponse, error) {
	if !actor.Allowed(identity.OpManageUsers) && actor.ID != userID {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	if !actor.Allowed(identity.OpManageUsers) {
		return nil, shared.ErrForbidden
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToUserResponses(users), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update changes account details
func (s *UserService) Update(ctx context.Context, actor identity.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.Allowed(identity.OpManageUsers) {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// AssignRole grants a role to an account
func (s *UserService) AssignRole(ctx context.Context, actor identity.Actor, userID uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	if !actor.Allowed(identity.OpManageUsers) {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.AssignRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// RemoveRole revokes a role from an account
func (s *UserService) RemoveRole(ctx context.Context, actor identity.Actor, userID uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	if !actor.Allowed(identity.OpManageUsers) {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.RemoveRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables an account
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if !actor.Allowed(identity.OpManageUsers) {
		return shared.ErrForbidden
	}
	if actor.ID == userID {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Deactivate()
	return s.userRepo.Save(ctx, user)
}
