package store

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ключ компании может быть её полным названием, поэтому ключевые
// столбцы не ограничены по длине.
func TestSchemaCompanyKeysAreUnbounded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := 0
	for _, path := range files {
		sql, err := migrationsFS.ReadFile(path)
		require.NoError(t, err)

		for _, line := range strings.Split(string(sql), "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			switch fields[0] {
			case "company_id", "peer_company_id":
				seen++
				assert.Equal(t, "text", fields[1], "%s: %s", path, strings.TrimSpace(line))
			}
		}
	}
	assert.Equal(t, 6, seen)
}
