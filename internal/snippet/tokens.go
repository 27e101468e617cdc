package snippet

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// tokenPattern matches a bracketed citation token such as [S1a2b3c].
var tokenPattern = regexp.MustCompile(`(?i)\[S[a-f0-9]{6}\]`)

// ExtractTokens returns each distinct bracketed citation token in text once,
// in order of first appearance. Tokens keep their brackets so the result can
// be joined and scanned again.
func ExtractTokens(text string) []string {
	matches := tokenPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// NewToken mints a bare token: "S" followed by six lowercase hex digits.
func NewToken() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "S" + hex[:6]
}

// Bracket wraps a bare token for embedding in text.
func Bracket(token string) string {
	return "[" + token + "]"
}

// NormalizeToken maps "[SABCDEF]", "[sabcdef]" and "Sabcdef" to "Sabcdef".
func NormalizeToken(token string) string {
	t := strings.TrimSuffix(strings.TrimPrefix(token, "["), "]")
	if t == "" {
		return ""
	}
	return "S" + strings.ToLower(t[1:])
}
