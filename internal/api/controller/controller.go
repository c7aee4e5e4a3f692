package controller

import (
	"sync"

	"github.com/compayre/backend/internal/service/governance"
	"github.com/compayre/backend/internal/service/ingest"
)

type Controller struct {
	service   *governance.Service
	ingest    *ingest.Service
	uploadDir string
	// ingestMx: загрузки идут строго по одной.
	ingestMx sync.Mutex
}

func NewController(service *governance.Service, ingestService *ingest.Service, uploadDir string) *Controller {
	return &Controller{service: service, ingest: ingestService, uploadDir: uploadDir}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
