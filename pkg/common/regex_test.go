package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexp_Set(t *testing.T) {
	var instance Regexp
	require.NoError(t, instance.Set(`^notepad\.exe$`))
	assert.True(t, instance.HasContent())
	assert.True(t, instance.MatchString("notepad.exe"))
	assert.False(t, instance.MatchString("winword.exe"))

	require.NoError(t, instance.Set(""))
	assert.True(t, instance.IsZero())

	assert.Error(t, instance.Set("(foo"))
}

func TestSelection_Selects(t *testing.T) {
	assert.True(t, Selection{}.Selects("anything.exe"))

	excluding := Selection{Excluded: MustNewRegexp(`(?i)^keepass`)}
	assert.True(t, excluding.Selects("notepad.exe"))
	assert.False(t, excluding.Selects("KeePass.exe"))

	including := Selection{
		Included: MustNewRegexp(`\.exe$`),
		Excluded: MustNewRegexp(`^explorer`),
	}
	assert.True(t, including.Selects("notepad.exe"))
	assert.False(t, including.Selects("explorer.exe"))
	assert.False(t, including.Selects("script.py"))
}
