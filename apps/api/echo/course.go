package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/user"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses")

	// public endpoints
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// authed endpoints
	cg.POST("", api.create, authed, authorize(user.RoleTeacher, user.RoleAdmin))
	cg.PUT("/:id", api.update, authed)
	cg.DELETE("/:id", api.destroy, authed)
	cg.GET("/instructor/me", api.queryMine, authed, authorize(user.RoleTeacher))
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return respondList(ctx, len(courses), courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return respondData(ctx, http.StatusOK, crs)
}

func (api *courseApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return respondData(ctx, http.StatusCreated, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	crs, _, err := api.getOwnedCourse(ctx, "Not authorized to update this course")
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err = api.svc.Update(ctx.Request().Context(), crs, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return respondData(ctx, http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	crs, _, err := api.getOwnedCourse(ctx, "Not authorized to delete this course")
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), crs.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return respondData(ctx, http.StatusOK, echo.Map{})
}

func (api *courseApi) queryMine(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	courses, err := api.svc.QueryByInstructor(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying instructor courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return respondList(ctx, len(courses), courses)
}

// getOwnedCourse loads the course in :id and enforces that the context user
// is its instructor or an admin.
func (api *courseApi) getOwnedCourse(ctx echo.Context, forbiddenMsg string) (course.Course, user.User, error) {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return course.Course{}, user.User{}, err
	}

	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return course.Course{}, user.User{}, errors.Wrap(err, "finding course by ID")
	}
	if crs.InstructorID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return course.Course{}, user.User{}, echo.NewHTTPError(http.StatusForbidden, forbiddenMsg)
	}
	return crs, ctxUsr, nil
}
