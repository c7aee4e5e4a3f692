package controller

import (
	"net/http"

	"github.com/compayre/backend/internal/pkg/store"
	"github.com/labstack/echo/v4"
)

type listRemunerationsRequest struct {
	Company  string `query:"company" validate:"max=128"`
	Director int64  `query:"director" validate:"gte=0"`
	FYLabel  string `query:"fy_label" validate:"max=16"`
}

func (c *Controller) ListRemunerations(ctx echo.Context) error {
	var req listRemunerationsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	opts := store.ListRemunerationsOpts{
		CompanyID: optional(req.Company),
		FYLabel:   optional(req.FYLabel),
	}
	if req.Director > 0 {
		opts.DirectorRef = &req.Director
	}

	remunerations, err := c.service.ListRemunerations(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, remunerations)
}

type listFinancialsRequest struct {
	Company string `query:"company" validate:"max=128"`
	FYLabel string `query:"fy_label" validate:"max=16"`
}

func (c *Controller) ListFinancials(ctx echo.Context) error {
	var req listFinancialsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	financials, err := c.service.ListFinancials(ctx.Request().Context(), store.ListFinancialsOpts{
		CompanyID: optional(req.Company),
		FYLabel:   optional(req.FYLabel),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, financials)
}

type listPeerComparisonsRequest struct {
	Company      string `query:"company" validate:"max=128"`
	PeerPosition int    `query:"peer_position" validate:"omitempty,min=1,max=5"`
}

func (c *Controller) ListPeerComparisons(ctx echo.Context) error {
	var req listPeerComparisonsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	opts := store.ListPeerComparisonsOpts{CompanyID: optional(req.Company)}
	if req.PeerPosition != 0 {
		opts.PeerPosition = &req.PeerPosition
	}

	peers, err := c.service.ListPeerComparisons(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, peers)
}
