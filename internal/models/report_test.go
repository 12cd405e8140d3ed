package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSections(t *testing.T) {
	t.Run("empty selects all", func(t *testing.T) {
		sections, err := ResolveSections(nil)
		require.NoError(t, err)
		assert.Equal(t, SectionOrder, sections)

		sections, err = ResolveSections([]string{})
		require.NoError(t, err)
		assert.Len(t, sections, len(SectionOrder))
	})

	t.Run("selection keeps report order", func(t *testing.T) {
		sections, err := ResolveSections([]string{"financial", "basic"})
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, "basic", sections[0].ID)
		assert.Equal(t, "financial", sections[1].ID)
	})

	t.Run("unknown section rejected", func(t *testing.T) {
		_, err := ResolveSections([]string{"basic", "bogus"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	})
}

func TestIsValidLanguage(t *testing.T) {
	for _, lang := range AvailableLanguages {
		assert.True(t, IsValidLanguage(lang), lang)
	}
	assert.False(t, IsValidLanguage("Klingon"))
	assert.False(t, IsValidLanguage("english"), "languages are case sensitive")
	assert.False(t, IsValidLanguage(""))
}

func TestArtifactFileName(t *testing.T) {
	assert.Equal(t, "account-research-t1.pdf", ArtifactFileName("t1"))
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.False(t, TaskStatusPending.Terminal())
	assert.False(t, TaskStatusProcessing.Terminal())
	assert.True(t, TaskStatusCompleted.Terminal())
	assert.True(t, TaskStatusFailed.Terminal())
}
