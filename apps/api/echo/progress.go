package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/progress"
)

type progressApi struct {
	svc     *progress.Service
	courses *course.Service
}

func registerProgressAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *progress.Service, courses *course.Service) {
	api := progressApi{svc: svc, courses: courses}

	pg := g.Group("/progress", authed)

	pg.GET("", api.query)
	pg.GET("/courses/:courseId", api.retrieve)
	pg.POST("/courses/:courseId", api.record)
	pg.GET("/instructor/courses/:courseId", api.queryCourse)
}

// Handlers

func (api *progressApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.QueryForUser(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying user progress")
	}
	if records == nil {
		records = []progress.CourseProgress{}
	}
	return respondList(ctx, len(records), records)
}

// retrieve returns the user's record for a course; a course never started
// yields a zero-progress record rather than a 404.
func (api *progressApi) retrieve(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	record, err := api.svc.GetForCourse(ctx.Request().Context(), ctxUsr.ID, ctx.Param("courseId"))
	if err != nil {
		return errors.Wrap(err, "finding course progress")
	}
	return respondData(ctx, http.StatusOK, record)
}

func (api *progressApi) record(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data RecordProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordProgressRequest")
	}
	if data.Progress == nil {
		return core.NewValidationError(nil, core.FieldError{
			Field: "progress",
			Error: "progress must be a number between 0 and 100",
		})
	}

	record, err := api.svc.Record(ctx.Request().Context(), ctxUsr.ID, ctx.Param("courseId"), *data.Progress)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, record)
}

// queryCourse lists every student's progress for a course. Restricted to the
// course instructor or an admin.
func (api *progressApi) queryCourse(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	crs, err := api.courses.GetByID(ctx.Request().Context(), ctx.Param("courseId"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	if crs.InstructorID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to access this course progress")
	}

	records, err := api.svc.QueryForCourse(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "querying course progress")
	}
	if records == nil {
		records = []progress.StudentProgress{}
	}
	return respondList(ctx, len(records), records)
}

type RecordProgressRequest struct {
	Progress *int `json:"progress"`
}
