package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewResourceRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewResourceRepository(pool)
	assert.NotNil(t, repo)
}
