package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedPerDialect(t *testing.T) {
	for _, dir := range []string{PostgresDir, SQLiteDir} {
		files, err := fs.Glob(Migrations, dir+"/*.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, files, dir)

		b, err := fs.ReadFile(Migrations, files[0])
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up")
		assert.Contains(t, string(b), "-- +goose Down")
	}
}
