package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/question"
	"github.com/oscardef/tutorassist/core/user"
)

type questionApi struct {
	svc     *question.Service
	userSvc *user.Service
}

func registerQuestionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *question.Service, userSvc *user.Service) {
	api := questionApi{svc: svc, userSvc: userSvc}

	qg := g.Group("/questions", jwt)
	qg.GET("", api.query)
	qg.POST("", api.create, teacherMiddleware())
	qg.POST("/check", api.check)

	// flag endpoints; registered before "/:id" so the route does not shadow them
	fg := qg.Group("/flags", teacherMiddleware())
	fg.GET("", api.queryFlags)
	fg.POST("/:id/resolve", api.resolveFlag)

	dg := qg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, teacherMiddleware())
	dg.POST("/alternates", api.addAlternate, teacherMiddleware())
}

// Handlers

func (api *questionApi) create(ctx echo.Context) error {
	var data QuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionRequest")
	}
	nq, err := data.toNewQuestion()
	if err != nil {
		return err
	}
	if err := nq.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	q, err := api.svc.Create(nq, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *questionApi) query(ctx echo.Context) error {
	filter := new(question.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []question.Question{})
	}
	filter.Clean()

	var qs []question.Question
	var err error
	if filter.IsEmpty() {
		qs, err = api.svc.QueryAll()
	} else {
		qs, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	if qs == nil {
		qs = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, qs)
}

func (api *questionApi) retrieve(ctx echo.Context) error {
	q, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding question by ID")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) update(ctx echo.Context) error {
	var data QuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionRequest")
	}
	uq, err := data.toUpdateQuestion()
	if err != nil {
		return err
	}

	q, err := api.svc.Update(ctx.Param("id"), uq)
	if err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding question by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *questionApi) addAlternate(ctx echo.Context) error {
	var data AlternateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AlternateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.svc.AddAlternate(ctx.Param("id"), data.Alternate)
	if err != nil {
		return errors.Wrap(err, "adding alternate answer")
	}
	return ctx.JSON(http.StatusOK, q)
}

// check grades a candidate answer against a correct answer without
// touching any stored question. Tutors use it to preview how an
// answer spec will behave before publishing.
func (api *questionApi) check(ctx echo.Context) error {
	var data CheckRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	spec, err := question.DecodeSpec(data.AnswerType, data.Spec)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "spec", Error: err.Error()})
	}

	checker := answer.NewChecker(answer.ParseMode(core.Conf.AnswerMatchingMode))
	res := checker.Validate(data.Answer, data.CorrectAnswer, data.AnswerType, spec)
	return ctx.JSON(http.StatusOK, res)
}

func (api *questionApi) queryFlags(ctx echo.Context) error {
	flags, err := api.svc.OpenFlags()
	if err != nil {
		return errors.Wrap(err, "querying open flags")
	}
	if flags == nil {
		flags = []question.Flag{}
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *questionApi) resolveFlag(ctx echo.Context) error {
	var data ResolveFlagRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResolveFlagRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	flag, err := api.svc.ResolveFlag(ctx.Param("id"), claims.Subject, data.AcceptAlternate)
	if err != nil {
		return errors.Wrap(err, "resolving flag")
	}
	return ctx.JSON(http.StatusOK, flag)
}

type (
	// QuestionRequest carries the raw JSON answer spec so it can be
	// decoded into the concrete shape matching the answer type.
	QuestionRequest struct {
		Prompt        string          `json:"prompt"`
		AnswerType    answer.Type     `json:"answer_type"`
		CorrectAnswer string          `json:"correct_answer"`
		Spec          json.RawMessage `json:"spec"`
		Alternates    []string        `json:"alternates"`
		Unit          string          `json:"unit"`
		Tolerance     *float64        `json:"tolerance"`
	}

	AlternateRequest struct {
		Alternate string `json:"alternate" validate:"required"`
	}

	CheckRequest struct {
		Answer        string          `json:"answer" validate:"required"`
		CorrectAnswer string          `json:"correct_answer" validate:"required"`
		AnswerType    answer.Type     `json:"answer_type" validate:"required,answertype"`
		Spec          json.RawMessage `json:"spec"`
	}

	ResolveFlagRequest struct {
		AcceptAlternate string `json:"accept_alternate"`
	}
)

func (qr *QuestionRequest) toNewQuestion() (question.NewQuestion, error) {
	nq := question.NewQuestion{
		Prompt:        qr.Prompt,
		AnswerType:    qr.AnswerType,
		CorrectAnswer: qr.CorrectAnswer,
		Alternates:    qr.Alternates,
		Unit:          qr.Unit,
		Tolerance:     qr.Tolerance,
	}
	// a missing or unknown answer type is reported on its own field by
	// Validate; decoding the spec against it would mask that
	if !qr.AnswerType.IsValid() {
		return nq, nil
	}
	spec, err := question.DecodeSpec(qr.AnswerType, qr.Spec)
	if err != nil {
		return question.NewQuestion{}, core.NewValidationError(nil, core.FieldError{Field: "spec", Error: err.Error()})
	}
	nq.Spec = spec
	return nq, nil
}

func (qr *QuestionRequest) toUpdateQuestion() (question.UpdateQuestion, error) {
	spec, err := question.DecodeSpec(qr.AnswerType, qr.Spec)
	if err != nil {
		return question.UpdateQuestion{}, core.NewValidationError(nil, core.FieldError{Field: "spec", Error: err.Error()})
	}
	return question.UpdateQuestion{
		Prompt:        qr.Prompt,
		CorrectAnswer: qr.CorrectAnswer,
		Spec:          spec,
		Alternates:    qr.Alternates,
		Unit:          qr.Unit,
		Tolerance:     qr.Tolerance,
	}, nil
}

func (ar *AlternateRequest) Validate() error {
	ar.Alternate = core.CleanString(ar.Alternate)
	return core.Validate.Struct(ar)
}

func (cr *CheckRequest) Validate() error {
	return core.Validate.Struct(cr)
}
