package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfig(t *testing.T) {
	t.Parallel()
	var nilInstance *Instance
	assert.ErrorIs(t, nilInstance.SetConfig(&Config{}), ErrNilInstance)
	i := &Instance{}
	assert.ErrorIs(t, i.SetConfig(nil), errNilConfig)
	require.NoError(t, i.SetConfig(&Config{Driver: "sqlite3", Verbose: true}))
	cfg := i.GetConfig()
	require.NotNil(t, cfg)
	cfg.Driver = "postgres"
	assert.Equal(t, "sqlite3", i.GetConfig().Driver, "GetConfig must return a copy")
}

func TestDialectFromDriver(t *testing.T) {
	t.Parallel()
	for driver, expected := range map[string]string{
		"postgres":   DBPostgreSQL,
		"PostgreSQL": DBPostgreSQL,
		"sqlite":     DBSQLite3,
		"sqlite3":    DBSQLite3,
		"mysql":      DBInvalidDriver,
	} {
		assert.Equal(t, expected, DialectFromDriver(driver), driver)
	}
	assert.Equal(t, DBInvalidDriver, (&Instance{}).Dialect())
}

func TestConnectionState(t *testing.T) {
	t.Parallel()
	i := &Instance{}
	assert.False(t, i.IsConnected())
	_, err := i.GetSQL()
	assert.ErrorIs(t, err, ErrDatabaseSupportDisabled)
	assert.ErrorIs(t, i.CloseConnection(), errNilSQL)
	assert.ErrorIs(t, i.SetSQLiteConnection(nil), errNilSQL)
	i.SetConnected(true)
	assert.True(t, i.IsConnected())
	_, err = i.GetSQL()
	assert.ErrorIs(t, err, ErrDatabaseSupportDisabled, "connected without a connection is still unusable")
}
