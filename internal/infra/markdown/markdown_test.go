package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := New()

	got := string(r.Render("Campaña **integral** en redes"))
	assert.Contains(t, got, "<strong>integral</strong>")
	assert.Contains(t, got, "<p>")
}

func TestRenderStripsScripts(t *testing.T) {
	r := New()

	got := string(r.Render("hola <script>alert(1)</script> [x](javascript:alert(1))"))
	assert.NotContains(t, got, "<script>")
	assert.NotContains(t, got, "javascript:")
	assert.Contains(t, got, "hola")
}

func TestRenderLinksOpenInNewTab(t *testing.T) {
	got := string(New().Render("[agenda](https://meet.google.com/abc)"))
	assert.Contains(t, got, `href="https://meet.google.com/abc"`)
	assert.Contains(t, got, `target="_blank"`)
}
