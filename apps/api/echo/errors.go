package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/progress"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			msgs := make([]string, 0, len(origErr))
			for _, vErr := range origErr {
				msgs = append(msgs, vErr.Translate(core.Translator))
			}
			code = http.StatusBadRequest
			message = strings.Join(msgs, ", ")
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			code, message = mapDomainError(errors.Cause(err))

			if code == http.StatusInternalServerError {
				msg := message

				var usr user.User
				if ctxUsr, uErr := getContextUser(ctx); uErr == nil {
					usr = ctxUsr
				}
				logger.Error(msg.(string), errors.Wrap(err, msg.(string)), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if code == http.StatusInternalServerError && ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, response{Success: false, Message: message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// statusForError resolves the HTTP status an error will be reported with,
// for instrumentation that runs before the error handler.
func statusForError(err error) int {
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		return origErr.Code
	case validator.ValidationErrors, *core.ValidationError:
		return http.StatusBadRequest
	default:
		code, _ := mapDomainError(origErr)
		return code
	}
}

// mapDomainError translates domain errors into HTTP codes and client-safe
// messages. Anything unrecognized is a server error.
func mapDomainError(err error) (int, interface{}) {
	switch err {
	case user.ErrInvalidCredentials:
		return http.StatusUnauthorized, "Invalid credentials"
	case user.ErrEmailExists:
		return http.StatusBadRequest, "Email already in use"
	case ErrTokenExpired, ErrTokenInvalid:
		return http.StatusUnauthorized, errUnauthorized.Message
	case user.ErrNotFound:
		return http.StatusNotFound, "User not found"
	case course.ErrNotFound:
		return http.StatusNotFound, "Course not found"
	case progress.ErrNotFound:
		return http.StatusNotFound, "Progress not found"
	case notification.ErrNotFound:
		return http.StatusNotFound, "Notification not found"
	case notification.ErrRecipientNotFound:
		return http.StatusNotFound, "Recipient user not found"
	case notification.ErrNotRecipient:
		return http.StatusForbidden, "Not authorized to access this notification"
	case question.ErrNotFound:
		return http.StatusNotFound, "Question not found"
	case question.ErrNotAssigned:
		return http.StatusForbidden, "Not authorized to answer this question"
	}
	return http.StatusInternalServerError, "Server Error"
}
