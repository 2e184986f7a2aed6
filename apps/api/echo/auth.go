package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

var (
	contextUserKey = "user"

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// TokenManager issues and verifies signed JWTs for API authentication.
type TokenManager struct {
	conf *core.Config
}

func NewTokenManager(conf *core.Config) *TokenManager {
	return &TokenManager{conf: conf}
}

// Issue generates a signed JWT token string representing the user Claims.
func (tm *TokenManager) Issue(usr user.User) (string, error) {
	now := user.NowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    tm.conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(tm.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Role:     usr.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString(tm.conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify parses and validates a token string. An expired token yields
// ErrTokenExpired; any other failure (bad signature, malformed, wrong
// algorithm) yields ErrTokenInvalid.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.conf.SecretKey, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// authMiddleware authenticates requests bearing a JWT and attaches the
// corresponding User to the echo.Context.
func authMiddleware(tm *TokenManager, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenStr := extractToken(ctx.Request())
			if tokenStr == "" {
				return errUnauthorized
			}
			claims, err := tm.Verify(tokenStr)
			if err != nil {
				return err
			}
			usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding user by ID")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// authorize only lets through users holding one of the given roles.
// It must be applied after authMiddleware.
func authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return echo.NewHTTPError(
				http.StatusForbidden,
				fmt.Sprintf("user role %s is not authorized to access this route", usr.Role),
			)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

func extractToken(req *http.Request) string {
	auth := req.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
