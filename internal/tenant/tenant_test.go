package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoped(t *testing.T) {
	for _, name := range []string{"users", "rooms", "bookings", "iot-devices", "service-requests", "staff-requests", "preferences"} {
		assert.True(t, Scoped(name), name)
	}
	assert.False(t, Scoped("notifications"))
	assert.False(t, Scoped("hotels"))
	assert.False(t, Scoped(""))
}

func TestParse(t *testing.T) {
	assert.Equal(t, ID("7"), Parse("  7 "))
	assert.True(t, Parse("   ").IsZero())
	assert.False(t, Parse("1").IsZero())
}
