package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// User represents an account in the system. Clients created by a
// seller at the counter get a phone number and no password; they can
// be upgraded to a full login later.
type User struct {
	shared.BaseAggregateRoot
	Username     string     `gorm:"type:varchar(50);uniqueIndex"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	Phone        string     `gorm:"type:varchar(50);index"`
	PasswordHash string     `gorm:"type:varchar(200)"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Roles        []Role     `gorm:"-"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRole represents the role assignment rows for a user
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      Role      `gorm:"type:varchar(20);primaryKey"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewUser creates a new user with login credentials
func NewUser(username, password string, roles ...Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	for _, role := range roles {
		if !role.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown role "+role.String())
		}
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		Status:            UserStatusActive,
		Roles:             roles,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewWalkInClient creates a client account identified only by phone.
// Sellers use this when placing an order for someone at the counter.
func NewWalkInClient(displayName, phone string) (*User, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayName:       strings.TrimSpace(displayName),
		Phone:             strings.TrimSpace(phone),
		Status:            UserStatusActive,
		Roles:             []Role{RoleClient},
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(displayName string) error {
	if len(displayName) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Display name cannot exceed 200 characters")
	}

	u.DisplayName = strings.TrimSpace(displayName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPhone sets the user's phone number
func (u *User) SetPhone(phone string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}

	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword changes the user's password after checking the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("VALIDATION_ERROR", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// AssignRole assigns a role to the user
func (u *User) AssignRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown role "+role.String())
	}
	for _, r := range u.Roles {
		if r == role {
			return shared.NewDomainError("ALREADY_EXISTS", "User already has this role")
		}
	}

	u.Roles = append(u.Roles, role)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RemoveRole removes a role from the user
func (u *User) RemoveRole(role Role) error {
	found := false
	roles := make([]Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != role {
			roles = append(roles, r)
		} else {
			found = true
		}
	}
	if !found {
		return shared.NewDomainError("NOT_FOUND", "User does not have this role")
	}

	u.Roles = roles
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive && u.PasswordHash != ""
}

// RecordLoginSuccess stores the last successful login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Actor returns the authorization view of this user
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Roles: u.Roles}
}

func validateUsername(username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 {
		return shared.NewDomainError("VALIDATION_ERROR", "Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Username cannot exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("VALIDATION_ERROR", "Username may only contain letters, digits, dot, dash and underscore")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password cannot exceed 72 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone cannot exceed 50 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
