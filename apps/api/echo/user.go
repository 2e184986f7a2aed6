package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

const oauthStateCookie = "oauthstate"

// FederatedProvider is an external identity provider the API can delegate
// logins to.
type FederatedProvider interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (user.FederatedProfile, error)
}

type authApi struct {
	svc    *user.Service
	tokens *TokenManager
	google FederatedProvider
	conf   *core.Config
	mtcs   *metrics
}

func registerAuthAPI(
	g *echo.Group,
	authed echo.MiddlewareFunc,
	svc *user.Service,
	tokens *TokenManager,
	google FederatedProvider,
	conf *core.Config,
	mtcs *metrics,
) {
	api := authApi{svc: svc, tokens: tokens, google: google, conf: conf, mtcs: mtcs}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/google", api.googleLogin)
	ag.GET("/google/callback", api.googleCallback)

	// authed endpoints
	ag.GET("/me", api.me, authed)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	token, err := api.tokens.Issue(usr)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	return respondToken(ctx, http.StatusCreated, token, usr)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		api.mtcs.recordLogin("password", false)
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return user.ErrInvalidCredentials
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.tokens.Issue(usr)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	api.mtcs.recordLogin("password", true)
	return respondToken(ctx, http.StatusOK, token, usr)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, usr)
}

func (api *authApi) googleLogin(ctx echo.Context) error {
	if api.google == nil || !api.conf.Google.Enabled() {
		return errHttpNotFound
	}

	state := uuid.NewString()
	ctx.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return ctx.Redirect(http.StatusTemporaryRedirect, api.google.LoginURL(state))
}

func (api *authApi) googleCallback(ctx echo.Context) error {
	if api.google == nil || !api.conf.Google.Enabled() {
		return errHttpNotFound
	}

	cookie, err := ctx.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != ctx.QueryParam("state") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid oauth state")
	}

	profile, err := api.google.Exchange(ctx.Request().Context(), ctx.QueryParam("code"))
	if err != nil {
		api.mtcs.recordLogin("google", false)
		return echo.NewHTTPError(http.StatusUnauthorized, "google authentication failed")
	}

	usr, err := api.svc.AuthenticateFederated(ctx.Request().Context(), profile)
	if err != nil {
		api.mtcs.recordLogin("google", false)
		return errors.Wrap(err, "authenticating federated user")
	}
	token, err := api.tokens.Issue(usr)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	api.mtcs.recordLogin("google", true)
	return ctx.Redirect(
		http.StatusFound,
		fmt.Sprintf("%s/auth/success?token=%s", api.conf.FrontendBaseURL, url.QueryEscape(token)),
	)
}

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users", authed)

	ug.GET("", api.query, authorize(user.RoleAdmin))
	ug.GET("/profile", api.profile)
	ug.PUT("/profile", api.updateProfile)
	ug.PUT("/password", api.changePassword)
	ug.PUT("/:id/role", api.setRole, authorize(user.RoleAdmin))
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return respondList(ctx, len(users), users)
}

func (api *userApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, usr)
}

func (api *userApi) updateProfile(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.UpdateProfile(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return respondData(ctx, http.StatusOK, usr)
}

func (api *userApi) changePassword(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ChangePassword(ctx.Request().Context(), ctxUsr.ID, data); err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
		}
		return errors.Wrap(err, "changing password")
	}
	return respondMessage(ctx, http.StatusOK, "Password updated successfully")
}

func (api *userApi) setRole(ctx echo.Context) error {
	var data RoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleRequest")
	}
	if !user.ValidRole(data.Role) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "role",
			Error: "Please provide a valid role (student, teacher, or admin)",
		})
	}

	usr, err := api.svc.SetRole(ctx.Request().Context(), ctx.Param("id"), data.Role)
	if err != nil {
		return errors.Wrap(err, "setting role")
	}
	return respondData(ctx, http.StatusOK, usr)
}

type RoleRequest struct {
	Role string `json:"role"`
}
