package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b = $2 LIMIT $3", pg.rebind("SELECT 1 FROM t WHERE a = ? AND b = ? LIMIT ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%x-wing%", likePattern("X-Wing"))
	assert.Equal(t, "%100!%!_!!%", likePattern("100%_!"))
}
