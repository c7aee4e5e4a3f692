package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/labstack/echo/v4"
)

type listDirectorsRequest struct {
	Company  string `query:"company" validate:"max=128"`
	Category string `query:"category" validate:"max=128"`
	Search   string `query:"search" validate:"max=128"`
}

func (c *Controller) ListDirectors(ctx echo.Context) error {
	var req listDirectorsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	directors, err := c.service.ListDirectors(ctx.Request().Context(), store.ListDirectorsOpts{
		CompanyID: optional(req.Company),
		Category:  optional(req.Category),
		Search:    optional(req.Search),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, directors)
}

func (c *Controller) GetDirector(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: director id must be an integer", constants.ErrBadRequest)
	}

	director, err := c.service.GetDirector(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, director)
}
