package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sahayak/pkg/domain-errors"
)

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Len(t, langs, 23)
	assert.Equal(t, "en-IN", langs[0].Code)

	seen := make(map[string]bool)
	for _, l := range langs {
		assert.False(t, seen[l.Code], "duplicate code %s", l.Code)
		seen[l.Code] = true
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Native)
	}
}

func TestLookup(t *testing.T) {
	hindi, err := Lookup("hi-IN")
	require.NoError(t, err)
	assert.Equal(t, "Hindi", hindi.Name)

	_, err = Lookup("fr-FR")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
