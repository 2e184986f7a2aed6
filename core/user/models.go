package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/darasahub/darasa/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	GoogleID     string    `json:"-"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares pwd against the stored hash. A User with no hash
// (federated-only account) never matches.
func (u *User) CheckPassword(pwd string) error {
	if len(u.PasswordHash) == 0 {
		return ErrInvalidCredentials
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// DeriveUsername builds a username from a federated profile's display name:
// whitespace becomes underscores and the result is lowered. An empty result
// falls back to a timestamp-based name.
func DeriveUsername(displayName string, now time.Time) string {
	uname := strings.ToLower(whitespaceRegex.ReplaceAllString(strings.TrimSpace(displayName), "_"))
	if uname == "" {
		return fmt.Sprintf("user_%d", now.Unix())
	}
	return uname
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,allroles"`
}

func (nu *NewUser) Validate(ctx context.Context, svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, nu.Email)
}

// LoginUser contains the credentials for a password login.
type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lu *LoginUser) Validate() error {
	lu.Email = core.CleanString(lu.Email, true /* lower */)
	return core.Validate.Struct(lu)
}

// UpdateProfile defines what a user may change on their own profile.
// Role and password changes go through their own flows.
type UpdateProfile struct {
	Username string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

func (up *UpdateProfile) Validate() error {
	up.Username = core.CleanString(up.Username, true /* lower */)
	up.Avatar = core.CleanString(up.Avatar)
	return core.Validate.Struct(up)
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (cp *ChangePassword) Validate() error { return core.Validate.Struct(cp) }

// FederatedProfile is a verified profile obtained from an external identity
// provider.
type FederatedProfile struct {
	ExternalID string
	Name       string
	Email      string
	Avatar     string
}
