package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, New())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "123e4567", Short("123e4567-e89b-12d3-a456-426614174000"))
	assert.Equal(t, "plain", Short("plain"))
	assert.Equal(t, "", Short(""))
}
