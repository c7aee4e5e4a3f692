package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, "warn", verbosityLevel(0))
	assert.Equal(t, "info", verbosityLevel(1))
	assert.Equal(t, "debug", verbosityLevel(2))
	assert.Equal(t, "debug", verbosityLevel(3))
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("COMPAYRE_AUTH_JWT_SECRET", testSecret)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--role", constants.RoleAdmin, "--user", "42"})
	require.NoError(t, cmd.Execute())

	claims, err := utils.ParseAuthToken(strings.TrimSpace(out.String()), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, constants.RoleAdmin, claims.Role)
}

func TestTokenCmdUnknownRole(t *testing.T) {
	t.Setenv("COMPAYRE_AUTH_JWT_SECRET", testSecret)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"token", "--role", "root"})
	assert.Error(t, cmd.Execute())
}

func TestIngestDryRunWithoutDatabase(t *testing.T) {
	t.Setenv("COMPAYRE_DATABASE_URL", "")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Companies"))
	require.NoError(t, f.SetSheetRow("Companies", "A1", &[]any{"company_id", "name"}))
	require.NoError(t, f.SetSheetRow("Companies", "A2", &[]any{"500001", "Acme"}))
	path := t.TempDir() + "/book.xlsx"
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ingest", path, "--dry-run", "-v", "0"})
	require.NoError(t, cmd.Execute())
}

func TestIngestMissingFile(t *testing.T) {
	t.Setenv("COMPAYRE_DATABASE_URL", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"ingest", t.TempDir() + "/missing.xlsx", "--dry-run", "-v", "0"})
	assert.Error(t, cmd.Execute())
}

func TestIngestRequiresDatabase(t *testing.T) {
	t.Setenv("COMPAYRE_DATABASE_URL", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"ingest", "book.xlsx", "-v", "0"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url is required")
}
