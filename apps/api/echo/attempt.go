package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oscardef/tutorassist/core/attempt"
	"github.com/oscardef/tutorassist/core/user"
)

type attemptApi struct {
	svc     *attempt.Service
	userSvc *user.Service
}

func registerAttemptAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attempt.Service, userSvc *user.Service) {
	api := attemptApi{svc: svc, userSvc: userSvc}

	ag := g.Group("/attempts", jwt)
	ag.POST("", api.submit)
	ag.GET("", api.query)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/dispute", api.dispute)
}

// Handlers

func (api *attemptApi) submit(ctx echo.Context) error {
	var data attempt.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	att, err := api.svc.Submit(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting attempt")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *attemptApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(attempt.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attempt.Attempt{})
	}
	// students only see their own attempts
	if !claims.IsTeacher && !claims.IsAdmin {
		filter.StudentID = claims.Subject
	}

	attempts, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying attempts")
	}
	if attempts == nil {
		attempts = []attempt.Attempt{}
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *attemptApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	att, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding attempt by ID")
	}
	if att.StudentID != claims.Subject && !claims.IsTeacher && !claims.IsAdmin {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attemptApi) dispute(ctx echo.Context) error {
	var data attempt.NewDispute
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDispute")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	att, err := api.svc.Dispute(ctx.Param("id"), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "disputing attempt")
	}
	return ctx.JSON(http.StatusOK, att)
}
