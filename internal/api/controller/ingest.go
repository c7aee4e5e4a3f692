package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/service/ingest"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IngestWorkbook принимает книгу multipart-полем "file" и загружает её
// так же, как команда ingest.
func (c *Controller) IngestWorkbook(ctx echo.Context) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: form field \"file\" is required", constants.ErrBadRequest)
	}

	dryRun := false
	if v := ctx.FormValue("dry_run"); v != "" {
		if dryRun, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: dry_run must be a boolean", constants.ErrBadRequest)
		}
	}

	path, err := c.saveUpload(header)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	c.ingestMx.Lock()
	defer c.ingestMx.Unlock()

	summary, err := c.ingest.IngestFile(ctx.Request().Context(), ingest.Options{
		Path:   path,
		Sheet:  ctx.FormValue("sheet"),
		DryRun: dryRun,
		Name:   filepath.Base(header.Filename),
	})
	if errors.Is(err, ingest.ErrStructural) {
		return constants.NewCodedError(err.Error(), http.StatusUnprocessableEntity)
	}
	if err != nil {
		return err
	}

	logger.Infof(ctx.Request().Context(), "api: ingested %s, run %s", header.Filename, summary.RunID)
	return ctx.JSON(http.StatusOK, summary)
}

func (c *Controller) saveUpload(header *multipart.FileHeader) (string, error) {
	dir := c.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+".xlsx")
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}

	return path, nil
}
