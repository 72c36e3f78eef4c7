package mindlab_test

import (
	"testing"

	"github.com/fwojciec/mindlab"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := mindlab.DefaultTheme()

	assert.Equal(t, 0, theme.Stimulus)
	assert.Equal(t, 4, theme.Accent)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 2, theme.Success)
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	t.Run("known theme", func(t *testing.T) {
		t.Parallel()
		theme, ok := mindlab.ThemeByName("dracula")
		assert.True(t, ok)
		assert.Equal(t, 13, theme.Accent)
	})

	t.Run("unknown theme falls back to default", func(t *testing.T) {
		t.Parallel()
		theme, ok := mindlab.ThemeByName("neon")
		assert.False(t, ok)
		assert.Equal(t, mindlab.DefaultTheme(), theme)
	})
}

func TestThemeNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"dark", "dracula", "light", "nord", "solarized"}, mindlab.ThemeNames())
}
