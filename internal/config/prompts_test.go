package config

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts_EmptyPathUsesDefaults(t *testing.T) {
	p, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts(), p)
}

func TestLoadPrompts_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadPrompts(filepath.Join(t.TempDir(), "prompts.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts().Persona, p.Persona)
}

func TestLoadPrompts_FillsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	yml := `
persona: "Você é um assistente de clínica de felinos."
canned:
  faq:
    - triggers: ["endereço"]
      reply: "Rua das Flores, 10."
replies:
  fallback: "Volte logo."
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	p, err := LoadPrompts(path)
	require.NoError(t, err)

	defaults := DefaultPrompts()
	assert.Equal(t, "Você é um assistente de clínica de felinos.", p.Persona)
	require.Len(t, p.Canned.FAQ, 1)
	assert.Equal(t, []string{"endereço"}, p.Canned.FAQ[0].Triggers)
	assert.Equal(t, "Volte logo.", p.Replies.Fallback)

	assert.Equal(t, defaults.Filter, p.Filter)
	assert.Equal(t, defaults.Canned.FollowUps, p.Canned.FollowUps)
	assert.Equal(t, defaults.Canned.ExamReply, p.Canned.ExamReply)
	assert.Equal(t, defaults.Replies.NoMessage, p.Replies.NoMessage)
	assert.Equal(t, defaults.Replies.Error, p.Replies.Error)
}

func TestLoadPrompts_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("persona: [unclosed"), 0o600))

	_, err := LoadPrompts(path)
	require.Error(t, err)
}

func TestDefaultPrompts_PatternsCompile(t *testing.T) {
	for _, p := range DefaultPrompts().Filter.Patterns {
		_, err := regexp.Compile("(?i)" + p)
		assert.NoError(t, err, p)
	}
}
