package reply_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vet-assistant-relay/internal/config"
	"vet-assistant-relay/internal/usecase/reply"
)

func defaultFilter(t *testing.T) (*reply.Filter, string) {
	t.Helper()
	p := config.DefaultPrompts()
	f, err := reply.NewFilter(p.Filter.Patterns, p.Filter.Redirect)
	require.NoError(t, err)
	return f, p.Filter.Redirect
}

func TestFilter_ReplacesEveryForbiddenPhrase(t *testing.T) {
	f, redirect := defaultFilter(t)

	in := "Se a febre continuar, procure um veterinário. Caso piore, procure um veterinário imediatamente."
	out := f.Filter(in)

	assert.NotContains(t, strings.ToLower(out), "procure um veterinário")
	assert.Equal(t, 2, strings.Count(out, redirect))
	assert.True(t, strings.HasPrefix(out, "Se a febre continuar, "+redirect))
}

func TestFilter_IsCaseInsensitive(t *testing.T) {
	f, redirect := defaultFilter(t)

	for _, in := range []string{
		"PROCURE UM VETERINÁRIO",
		"Consulte o seu veterinario",
		"Leve o seu cão ao veterinário hoje",
		"Procure ajuda profissional",
		"Please see a vet.",
	} {
		out := f.Filter(in)
		assert.Contains(t, out, redirect, in)
	}
}

func TestFilter_LeavesCleanTextUntouched(t *testing.T) {
	f, _ := defaultFilter(t)

	in := "Ofereça água fresca e observe o apetite nas próximas horas."
	assert.Equal(t, in, f.Filter(in))
}

func TestFilter_IdempotentWhenRedirectCannotRematch(t *testing.T) {
	f, _ := defaultFilter(t)

	for _, in := range []string{
		"",
		"Mantenha o gato hidratado.",
		"Procure um veterinário se houver sangue.",
		"consulte um veterinário e procure ajuda profissional",
	} {
		once := f.Filter(in)
		assert.Equal(t, once, f.Filter(once), in)
	}
}

func TestFilter_SinglePassNoDoubleSubstitution(t *testing.T) {
	// the redirect of the first pattern contains the literal of the second
	f, err := reply.NewFilter([]string{"alpha", "beta"}, "beta!")
	require.NoError(t, err)

	assert.Equal(t, "beta! and beta!", f.Filter("alpha and beta"))
}

func TestFilter_EarlierPatternWinsAtSamePosition(t *testing.T) {
	f, err := reply.NewFilter([]string{"procure um", "procure um veterinário"}, "X")
	require.NoError(t, err)

	assert.Equal(t, "X veterinário", f.Filter("procure um veterinário"))
}

func TestFilter_NoPatternsIsIdentity(t *testing.T) {
	f, err := reply.NewFilter(nil, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "procure um veterinário", f.Filter("procure um veterinário"))
}

func TestFilter_RedirectIsLiteral(t *testing.T) {
	f, err := reply.NewFilter([]string{"vet"}, "$1 custo")
	require.NoError(t, err)
	assert.Equal(t, "$1 custo", f.Filter("vet"))
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	_, err := reply.NewFilter([]string{"ok", "(unclosed"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter pattern 1")
}

func TestFilter_MatchEndsAtWordBoundary(t *testing.T) {
	f, redirect := defaultFilter(t)

	for _, in := range []string{
		"You can see a veterinary clinic chart below.",
		"Ask them to see a veteran caretaker.",
		"Procure o veterinário-chefe da clínica.",
	} {
		assert.Equal(t, in, f.Filter(in), in)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"Please see a vet.", "Please " + redirect + "."},
		{"procure um veterinário", redirect},
		{"Consulte o veterinário, e depois", redirect + ", e depois"},
		{"consulte um veterinário\nAmanhã", redirect + "\nAmanhã"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Filter(tt.in), tt.in)
	}
}

func TestFilter_BoundaryAfterAccentedLetter(t *testing.T) {
	f, err := reply.NewFilter([]string{"veterinário"}, "X")
	require.NoError(t, err)

	assert.Equal(t, "X é bom", f.Filter("veterinário é bom"))
	assert.Equal(t, "veterinários", f.Filter("veterinários"))
}
