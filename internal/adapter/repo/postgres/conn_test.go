package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "://bad")
	assert.ErrorContains(t, err, "op=postgres.parse_config")
}
