package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/pkg/cache"
	"github.com/eburutu/mart/pkg/database"
)

func TestBootReleasesConnectionsWhenStorageFails(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:boot?mode=memory&cache=shared")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("STORAGE_DISK", "ftp")

	app, err := Boot(context.Background())
	require.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), `unknown disk "ftp"`)

	assert.Nil(t, database.DB)
	assert.Nil(t, cache.RDB)
}
