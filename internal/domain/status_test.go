package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForExpiry(t *testing.T) {
	assert.Equal(t, StatusExpired, StatusForExpiry(-1))
	assert.Equal(t, StatusExpiring, StatusForExpiry(0))
	assert.Equal(t, StatusExpiring, StatusForExpiry(2))
	assert.Equal(t, StatusSafe, StatusForExpiry(3))
	assert.Equal(t, StatusSafe, StatusForExpiry(30))
}
