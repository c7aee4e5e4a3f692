package api

import (
	"strings"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/utils"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return constants.ErrMissingAuthToken
		}

		token, err := utils.ParseAuthToken(strings.TrimSpace(header[len(bearerPrefix):]), svc.secret)
		if err != nil {
			logger.Debugf(ctx.Request().Context(), "auth: %v", err)
			return constants.ErrUnauthorized
		}

		switch token.Role {
		case constants.RoleUser, constants.RoleSubscriber, constants.RoleAdmin:
		default:
			return constants.ErrForbidden
		}

		ctx.Set(constants.CtxKeyUserID, token.UserID)
		ctx.Set(constants.CtxKeyRole, token.Role)
		reqCtx := logger.WithFields(ctx.Request().Context(), "user_id", token.UserID)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		return next(ctx)
	}
}

// AdminMiddleware ставится после AuthMiddleware.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		role, _ := ctx.Get(constants.CtxKeyRole).(string)
		if role != constants.RoleAdmin {
			return constants.ErrForbidden
		}

		return next(ctx)
	}
}
