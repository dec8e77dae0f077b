// Package format expands printf-style display templates in which each
// %-letter is resolved by a caller-supplied field source. Templates
// support width and precision flags ("%-8.8u"), conditional groups in
// both the "%?x?then&else?" and nestable "%<x?then&else>" forms, "%>X"
// to right-align the remainder of the line, and "%|X" to pad the line
// out with a fill character.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Source resolves the fields of one template expansion.
type Source interface {
	// Field renders the value of letter. spec carries the raw
	// width/precision prefix from the template, e.g. "-8.8".
	Field(letter rune, spec string) string
	// Nonzero reports whether letter's value is set, deciding
	// conditional groups. Letters with no zero state report true.
	Nonzero(letter rune) bool
}

// Render expands tmpl against src. width is the target line width used
// by the %> and %| directives; pass 0 when no line width applies.
func Render(tmpl string, width int, src Source) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '%' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		i++
		start := i
		for i < len(tmpl) && (tmpl[i] == '-' || tmpl[i] == '.' || (tmpl[i] >= '0' && tmpl[i] <= '9')) {
			i++
		}
		spec := tmpl[start:i]
		if i >= len(tmpl) {
			break
		}
		switch tmpl[i] {
		case '%':
			b.WriteByte('%')
			i++
		case '>':
			pad, n := utf8.DecodeRuneInString(tmpl[i+1:])
			if n == 0 {
				return b.String()
			}
			rest := Render(tmpl[i+1+n:], width, src)
			gap := width - runewidth.StringWidth(b.String()) - runewidth.StringWidth(rest)
			for ; gap > 0; gap-- {
				b.WriteRune(pad)
			}
			b.WriteString(rest)
			return b.String()
		case '|':
			pad, n := utf8.DecodeRuneInString(tmpl[i+1:])
			if n == 0 {
				return b.String()
			}
			for gap := width - runewidth.StringWidth(b.String()); gap > 0; gap-- {
				b.WriteRune(pad)
			}
			i += 1 + n
		case '?', '<':
			letter, thenTmpl, elseTmpl, next, ok := parseCond(tmpl, i)
			if !ok {
				b.WriteByte(tmpl[i])
				i++
				continue
			}
			branch := elseTmpl
			if src.Nonzero(letter) {
				branch = thenTmpl
			}
			out := Render(branch, width, src)
			if spec != "" {
				out = String(spec, out)
			}
			b.WriteString(out)
			i = next
		default:
			letter, n := utf8.DecodeRuneInString(tmpl[i:])
			b.WriteString(src.Field(letter, spec))
			i += n
		}
	}
	return b.String()
}

// parseCond scans a conditional group starting at tmpl[i], which is '?'
// for the classic flat form or '<' for the nestable angle form.
func parseCond(tmpl string, i int) (letter rune, thenTmpl, elseTmpl string, next int, ok bool) {
	angle := tmpl[i] == '<'
	letter, n := utf8.DecodeRuneInString(tmpl[i+1:])
	if n == 0 {
		return 0, "", "", 0, false
	}
	j := i + 1 + n
	if j >= len(tmpl) || tmpl[j] != '?' {
		return 0, "", "", 0, false
	}
	j++

	if !angle {
		end := strings.IndexAny(tmpl[j:], "&?")
		if end < 0 {
			return 0, "", "", 0, false
		}
		thenTmpl = tmpl[j : j+end]
		j += end
		if tmpl[j] == '&' {
			j++
			end = strings.IndexByte(tmpl[j:], '?')
			if end < 0 {
				return 0, "", "", 0, false
			}
			elseTmpl = tmpl[j : j+end]
			j += end
		}
		return letter, thenTmpl, elseTmpl, j + 1, true
	}

	depth := 1
	split := -1
	for k := j; k < len(tmpl); k++ {
		switch tmpl[k] {
		case '%':
			if k+1 < len(tmpl) && tmpl[k+1] == '<' {
				depth++
				k++
			}
		case '&':
			if depth == 1 && split < 0 {
				split = k
			}
		case '>':
			depth--
			if depth == 0 {
				if split < 0 {
					return letter, tmpl[j:k], "", k + 1, true
				}
				return letter, tmpl[j:split], tmpl[split+1 : k], k + 1, true
			}
		}
	}
	return 0, "", "", 0, false
}

// String applies a width/precision spec to a string value: precision
// truncates to that many display columns, width pads (right-aligned
// unless the spec starts with '-').
func String(spec, s string) string {
	left := strings.HasPrefix(spec, "-")
	body := strings.TrimPrefix(spec, "-")
	width, prec := 0, -1
	if dot := strings.IndexByte(body, '.'); dot >= 0 {
		width = atoi(body[:dot])
		prec = atoi(body[dot+1:])
	} else {
		width = atoi(body)
	}
	if prec >= 0 {
		s = runewidth.Truncate(s, prec, "")
	}
	if width > 0 {
		if left {
			s = runewidth.FillRight(s, width)
		} else {
			s = runewidth.FillLeft(s, width)
		}
	}
	return s
}

// Number applies a spec to an integer value.
func Number(spec string, n int) string {
	return fmt.Sprintf("%"+spec+"d", n)
}

// Char applies a spec to a single character value.
func Char(spec string, c rune) string {
	return fmt.Sprintf("%"+spec+"c", c)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
