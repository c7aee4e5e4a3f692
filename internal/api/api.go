package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/compayre/backend/internal/api/controller"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/compayre/backend/internal/service/governance"
	"github.com/compayre/backend/internal/service/ingest"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type Options struct {
	JWTSecret   string
	CORSOrigins []string
	// UploadDir для временных файлов загрузки; пусто значит os.TempDir().
	UploadDir string
	Debug     bool
}

type APIService struct {
	router            *echo.Echo
	secret            string
	governanceService *governance.Service
	ingestService     *ingest.Service
}

// Serve блокируется до Shutdown; штатная остановка не считается ошибкой.
func (svc *APIService) Serve(addr string) error {
	logger.Infof(context.Background(), "api: listening on %s", addr)
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, opts Options) (*APIService, error) {
	svc := &APIService{router: echo.New(), secret: opts.JWTSecret}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.INFO)
	if opts.Debug {
		svc.router.Debug = true
		svc.router.Logger.SetLevel(log.DEBUG)
	}

	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	svc.governanceService = governance.NewService(store)
	svc.ingestService = ingest.NewService(store)

	api := svc.router.Group("/api/v1", svc.AuthMiddleware)
	cntrl := controller.NewController(svc.governanceService, svc.ingestService, opts.UploadDir)

	companies := api.Group("/companies")
	companies.GET("", cntrl.ListCompanies)
	companies.GET("/sectors", cntrl.ListSectors)
	companies.GET("/industries", cntrl.ListIndustries)
	companies.GET("/:id", cntrl.GetCompany)

	directors := api.Group("/directors")
	directors.GET("", cntrl.ListDirectors)
	directors.GET("/:id", cntrl.GetDirector)

	api.GET("/director-remuneration", cntrl.ListRemunerations)
	api.GET("/financial-timeseries", cntrl.ListFinancials)
	api.GET("/peer-comparisons", cntrl.ListPeerComparisons)

	admin := api.Group("/admin", svc.AdminMiddleware)
	admin.POST("/ingest", cntrl.IngestWorkbook, middleware.BodyLimit("32M"))

	return svc, nil
}
