package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/darasahub/darasa/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CreateUser persists usr and returns it with its assigned ID.
		// A duplicate email surfaces as ErrEmailExists.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByGoogleID(ctx context.Context, gid string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string) error {
	if _, err := svc.repo.GetUserByEmail(ctx, email); err == nil {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: "Email already in use"})
	} else if err != ErrNotFound {
		return err
	}
	return nil
}

// Register creates a local identity. Role defaults to student when not supplied.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	role := nu.Role
	if role == "" {
		role = RoleStudent
	}
	now := NowFunc().UTC()
	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      role,
		CreatedAt: now,
		LastLogin: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Authenticate performs a password login. Unknown email and wrong password
// both return ErrInvalidCredentials to prevent account enumeration.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return svc.setLastLogin(ctx, usr)
}

// AuthenticateFederated exchanges a verified external profile for a local
// identity, creating one on first login. Idempotent on the external id.
func (svc *Service) AuthenticateFederated(ctx context.Context, prof FederatedProfile) (User, error) {
	usr, err := svc.repo.GetUserByGoogleID(ctx, prof.ExternalID)
	if err != nil {
		if err != ErrNotFound {
			return User{}, err
		}
		now := NowFunc().UTC()
		usr = User{
			Username:  DeriveUsername(prof.Name, now),
			Email:     core.CleanString(prof.Email, true /* lower */),
			Avatar:    prof.Avatar,
			GoogleID:  prof.ExternalID,
			Role:      RoleStudent,
			CreatedAt: now,
			LastLogin: now,
		}
		if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
			return User{}, err
		}
		svc.sendWelcomeEmail(usr)
		return usr, nil
	}
	return svc.setLastLogin(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if up.Username != "" {
		usr.Username = up.Username
	}
	if up.Avatar != "" {
		usr.Avatar = up.Avatar
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// ChangePassword verifies the current password before setting the new one.
func (svc *Service) ChangePassword(ctx context.Context, id string, cp ChangePassword) error {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err = usr.CheckPassword(cp.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}
	if err = usr.SetPassword(cp.NewPassword); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

func (svc *Service) SetRole(ctx context.Context, id, role string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.Role = role
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) setLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Username, Address: usr.Email}},
		Subject: fmt.Sprintf("Welcome to %s!", svc.conf.AppName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account is ready. Log in to browse courses and track your progress.\n",
			usr.Username, svc.conf.AppName,
		),
	})
}
