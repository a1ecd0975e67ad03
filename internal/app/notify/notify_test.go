package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	var c Collector
	assert.False(t, c.HasErrors())

	c.Notify(Notification{Level: Success, Title: "ok"})
	c.Notify(Notification{Level: Error, Title: "boom"})
	assert.True(t, c.HasErrors())

	got := c.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].Title)
	assert.Empty(t, c.Drain())
	assert.False(t, c.HasErrors())
}
