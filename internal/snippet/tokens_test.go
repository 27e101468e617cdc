package snippet

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "order of first appearance",
			text: "See [Sabc123] and [S000fff], again [Sabc123].",
			want: []string{"[Sabc123]", "[S000fff]"},
		},
		{
			name: "case-insensitive",
			text: "upper [SABC123] lower [sabc123]",
			want: []string{"[SABC123]", "[sabc123]"},
		},
		{
			name: "rejects malformed",
			text: "[S12345] [S1234567] [Xabc123] [Sabc12g] Sabc123",
			want: []string{},
		},
		{
			name: "adjacent tokens",
			text: "[S111111][S222222]",
			want: []string{"[S111111]", "[S222222]"},
		},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTokens(tt.text))
		})
	}
}

func TestExtractTokens_Idempotent(t *testing.T) {
	texts := []string{
		"Answer [Sa1b2c3] cites [S0f0f0f] and [Sa1b2c3] again [SFFFFFF].",
		"none here",
		"[S123abc]",
	}
	for _, text := range texts {
		first := ExtractTokens(text)
		for _, sep := range []string{"", " ", "\n"} {
			assert.Equal(t, first, ExtractTokens(strings.Join(first, sep)), "sep %q", sep)
		}
	}
}

var bareToken = regexp.MustCompile(`^S[0-9a-f]{6}$`)

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := NewToken()
		require.Regexp(t, bareToken, tok)
		assert.Equal(t, []string{Bracket(tok)}, ExtractTokens("x "+Bracket(tok)+" y"))
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeToken(t *testing.T) {
	for _, in := range []string{"[SABC123]", "[sabc123]", "Sabc123", "sAbC123"} {
		assert.Equal(t, "Sabc123", NormalizeToken(in), in)
	}
	assert.Equal(t, "", NormalizeToken("[]"))
}

func TestSourceMap_RegisterAndResolve(t *testing.T) {
	m := NewSourceMap()
	pump := Source{Kind: SourceKindModel, ID: "B", Tag: "part", Name: "Pump", Snippet: `<part id="B" name="Pump"/>`}
	tok := m.Register(pump)
	require.Regexp(t, bareToken, tok)

	got, ok := m.Lookup(tok)
	require.True(t, ok)
	assert.Equal(t, pump, got)

	got, ok = m.Lookup(strings.ToUpper(Bracket(tok)))
	require.True(t, ok)
	assert.Equal(t, pump, got)

	_, ok = m.Lookup("S000000")
	assert.False(t, ok)

	unknown := "[Sdead00]"
	if unknown == Bracket(tok) {
		unknown = "[Sbeef00]"
	}
	cites := m.ResolveText("The pump " + Bracket(tok) + " feeds " + unknown + " via " + Bracket(tok))
	require.Len(t, cites, 2)
	assert.Equal(t, Bracket(tok), cites[0].Token)
	require.NotNil(t, cites[0].Source)
	assert.Equal(t, "B", cites[0].Source.ID)
	assert.Equal(t, unknown, cites[1].Token)
	assert.Nil(t, cites[1].Source)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{tok}, m.Tokens())
	assert.Equal(t, map[string]Source{tok: pump}, m.Snapshot())
}

func TestSourceMap_ConcurrentRegister(t *testing.T) {
	m := NewSourceMap()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := m.Register(Source{Kind: SourceKindModel, ID: "n"})
			_, ok := m.Lookup(tok)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 64, m.Len())
	assert.Len(t, m.Snapshot(), 64)
}
