package repositories

import (
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for a substring match.
// Pair it with LOWER(column) LIKE ? ESCAPE '\'.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
