package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	assert.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"notaversion_create_users.sql",
		"20260101120000.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- +goose Up\n"), 0o644))
		assert.Error(t, ValidateDir(dir), name)
		require.NoError(t, os.Remove(filepath.Join(dir, name)))
	}
}

func TestValidateDirMissingDir(t *testing.T) {
	assert.Error(t, ValidateDir(filepath.Join(t.TempDir(), "absent")))
}
