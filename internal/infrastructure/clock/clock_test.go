package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock_UsesLocation(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	c := New(prague)
	now := c.Now()

	assert.Equal(t, prague, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestSystemClock_NilLocation(t *testing.T) {
	assert.Equal(t, time.Local, New(nil).Now().Location())
}
