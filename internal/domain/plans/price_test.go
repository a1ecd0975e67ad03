package plans

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	got := FormatPrice(150000)

	assert.True(t, strings.HasPrefix(got, "$ "))
	assert.Contains(t, got, "150")
	assert.NotContains(t, got, ",00")
}

func TestFormatPriceRoundsToWholePesos(t *testing.T) {
	assert.Equal(t, FormatPrice(100), FormatPrice(99.6))
}

func TestHasMeetLink(t *testing.T) {
	empty := ""
	link := "https://meet.google.com/abc-defg-hij"

	assert.False(t, Plan{}.HasMeetLink())
	assert.False(t, Plan{MeetLink: &empty}.HasMeetLink())
	assert.True(t, Plan{MeetLink: &link}.HasMeetLink())
}
