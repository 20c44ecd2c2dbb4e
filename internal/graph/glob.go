package graph

import "strings"

// likeEscape is the escape character used with LIKE ... ESCAPE.
const likeEscape = `\`

// GlobToLike translates a shell-style glob pattern (`*`, `?`) into a SQL
// LIKE pattern. The store's native wildcards (`%`, `_`) and the escape
// character itself are escaped first, then `*` maps to `%` and `?` to `_`.
//
// Malformed patterns cannot occur: every character is either escaped or
// mapped, so the worst case is a pattern that matches nothing.
func GlobToLike(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	for _, r := range pattern {
		switch r {
		case '\\':
			b.WriteString(likeEscape + `\`)
		case '%':
			b.WriteString(likeEscape + `%`)
		case '_':
			b.WriteString(likeEscape + `_`)
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
