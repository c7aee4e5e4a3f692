package controller

import (
	"net/http"

	"github.com/compayre/backend/internal/pkg/store"
	"github.com/labstack/echo/v4"
)

type listCompaniesRequest struct {
	Sector   string `query:"sector" validate:"max=128"`
	Industry string `query:"industry" validate:"max=128"`
	Index    string `query:"index" validate:"max=128"`
	Search   string `query:"search" validate:"max=128"`
}

func (c *Controller) ListCompanies(ctx echo.Context) error {
	var req listCompaniesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	companies, err := c.service.ListCompanies(ctx.Request().Context(), store.ListCompaniesOpts{
		Sector:   optional(req.Sector),
		Industry: optional(req.Industry),
		Index:    optional(req.Index),
		Search:   optional(req.Search),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, companies)
}

func (c *Controller) GetCompany(ctx echo.Context) error {
	company, err := c.service.GetCompany(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, company)
}

func (c *Controller) ListSectors(ctx echo.Context) error {
	sectors, err := c.service.ListSectors(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, sectors)
}

func (c *Controller) ListIndustries(ctx echo.Context) error {
	industries, err := c.service.ListIndustries(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, industries)
}
