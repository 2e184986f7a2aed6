package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
)

type questionApi struct {
	svc     *question.Service
	courses *course.Service
}

func registerQuestionAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *question.Service, courses *course.Service) {
	api := questionApi{svc: svc, courses: courses}

	qg := g.Group("/questions", authed)

	qg.POST("", api.ask, authorize(user.RoleStudent))
	qg.GET("/student", api.queryStudent, authorize(user.RoleStudent))
	qg.GET("/teacher", api.queryTeacher, authorize(user.RoleTeacher))
	qg.GET("/courses/:courseId", api.queryCourse)
	qg.PUT("/:id", api.answer, authorize(user.RoleTeacher))
}

// Handlers

func (api *questionApi) ask(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data question.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.svc.Ask(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, q)
}

func (api *questionApi) queryStudent(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	questions, err := api.svc.QueryForStudent(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return respondList(ctx, len(questions), questions)
}

func (api *questionApi) queryTeacher(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	questions, err := api.svc.QueryForTeacher(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying teacher questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return respondList(ctx, len(questions), questions)
}

// queryCourse lists a course's questions. Open to the course instructor,
// admins and students.
func (api *questionApi) queryCourse(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	crs, err := api.courses.GetByID(ctx.Request().Context(), ctx.Param("courseId"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}

	isInstructor := crs.InstructorID == ctxUsr.ID
	if !isInstructor && !ctxUsr.IsAdmin() && !ctxUsr.IsStudent() {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to access questions for this course")
	}

	questions, err := api.svc.QueryForCourse(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "querying course questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return respondList(ctx, len(questions), questions)
}

func (api *questionApi) answer(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data question.AnswerQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.svc.Answer(ctx.Request().Context(), ctxUsr.ID, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, q)
}
