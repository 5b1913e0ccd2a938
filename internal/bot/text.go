// internal/bot/text.go
package bot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// normalizeInput repairs text some clients send as windows-1251 and
// collapses every run of whitespace to a single space.
func normalizeInput(s string) string {
	if !utf8.ValidString(s) {
		if fixed, err := charmap.Windows1251.NewDecoder().String(s); err == nil && utf8.ValidString(fixed) {
			s = fixed
		} else {
			s = strings.ToValidUTF8(s, "")
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// command splits "/expenses@LedgerBot 3" into "/expenses" and "3".
func command(text string) (cmd, args string) {
	cmd, args, _ = strings.Cut(text, " ")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}
