package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", authed)

	ng.GET("", api.query)
	ng.POST("", api.send)
	// read-all must come before the :id route
	ng.PUT("/read-all", api.markAllRead)
	ng.PUT("/:id", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	notifs, err := api.svc.QueryForUser(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if notifs == nil {
		notifs = []notification.Notification{}
	}
	return respondList(ctx, len(notifs), notifs)
}

func (api *notificationApi) send(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data notification.NewNotification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotification")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	notif, err := api.svc.Send(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, notif)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	notif, err := api.svc.MarkRead(ctx.Request().Context(), ctxUsr.ID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, notif)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.MarkAllRead(ctx.Request().Context(), ctxUsr.ID); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return respondMessage(ctx, http.StatusOK, "All notifications marked as read")
}
