package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turbo/newton/database"
)

func TestPlaceholder(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "?", Placeholder(database.DBSQLite3, 3))
	assert.Equal(t, "$3", Placeholder(database.DBPostgreSQL, 3))
}

func TestRebind(t *testing.T) {
	t.Parallel()
	q := "SELECT * FROM candle WHERE symbol = ? AND open_time >= ?"
	assert.Equal(t, q, Rebind(database.DBSQLite3, q))
	assert.Equal(t, "SELECT * FROM candle WHERE symbol = $1 AND open_time >= $2", Rebind(database.DBPostgreSQL, q))
}
