// Package markup removes the in-game text formatting codes that appear in
// player names, club tags and map names.
//
// A code starts with '$' and is followed by a 1 to 3 digit hex color
// ($f00), a single style letter ($o, $i, $w, $z, ...), or a link opener that
// may carry a bracketed target ($l[https://...]). A run of an even number of
// dollars is an escape sequence and is removed as well.
package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// code matches the part after the '$' that introduces a formatting code.
var code = regexp.MustCompile(`^(?i:[0-9a-f]{1,3}|[ionmwsztg<>]|[lhp](?:\[[^\]]+\])?)`)

// Strip returns s without formatting codes. Strip(Strip(s)) == Strip(s).
func Strip(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '$' {
			b.WriteByte(s[i])
			i++
			continue
		}

		j := i
		for j < len(s) && s[j] == '$' {
			j++
		}
		run := j - i

		if run%2 == 0 {
			i = j
			continue
		}
		if m := code.FindString(s[j:]); m != "" {
			i = j + len(m)
			continue
		}
		// Odd run with nothing recognizable after it stays as typed.
		b.WriteString(s[i:j])
		i = j
	}
	return b.String()
}

// StripPtr is Strip for optional fields.
func StripPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Strip(*s)
	return &out
}

// FormatThousands renders n with comma separators, e.g. 1234567 -> "1,234,567".
func FormatThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
