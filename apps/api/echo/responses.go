package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// response is the envelope wrapping every JSON payload the API returns.
type response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Message interface{} `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondData(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, response{Success: true, Data: data})
}

// respondList always carries a count, even when zero.
func respondList(ctx echo.Context, count int, data interface{}) error {
	return ctx.JSON(http.StatusOK, response{Success: true, Count: &count, Data: data})
}

func respondMessage(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, response{Success: true, Message: msg})
}

func respondToken(ctx echo.Context, code int, token string, usr interface{}) error {
	return ctx.JSON(code, response{Success: true, Token: token, User: usr})
}
