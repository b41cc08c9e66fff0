package metrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("sporeid_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	assert.Equal(t, "sporeid_test", provider.Namespace())
	assert.NotNil(t, provider.MeterProvider())
	assert.Contains(t, scrape(t, provider), "go_goroutines")
}

func TestProvider_RegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, db.Close())
	}()

	provider, err := NewProvider("sporeid_test")
	require.NoError(t, err)

	require.NoError(t, provider.RegisterDBStats(db, "sqlite3"))
	assert.Contains(t, scrape(t, provider), `go_sql_max_open_connections{db_name="sqlite3"}`)

	// The same pool cannot be registered twice under one name.
	assert.Error(t, provider.RegisterDBStats(db, "sqlite3"))
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("sporeid_test")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
