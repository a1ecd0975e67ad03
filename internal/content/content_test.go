package content

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cat, err := Load(Defaults())
	require.NoError(t, err)

	assert.Equal(t, "Impulsa", cat.Site.Brand.Name)
	assert.Len(t, cat.Site.Hero.Stats, 4)
	assert.Len(t, cat.Site.Team.Members, 4)
	assert.Len(t, cat.Services, 6)
	assert.Contains(t, cat.Services[1].Features, "TikTok Ads")
}

func TestLoadOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"site.yaml":     {Data: []byte("brand:\n  name: Otra\n")},
		"services.yaml": {Data: []byte("- title: Solo uno\n")},
	}

	cat, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "Otra", cat.Site.Brand.Name)
	require.Len(t, cat.Services, 1)
	assert.Equal(t, "Solo uno", cat.Services[0].Title)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{
		"site.yaml":     {Data: []byte("brand: [unclosed")},
		"services.yaml": {Data: []byte("[]")},
	})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{
		"site.yaml":     {Data: []byte("hero:\n  title: x\n")},
		"services.yaml": {Data: []byte("[]")},
	})
	assert.Error(t, err)
}
