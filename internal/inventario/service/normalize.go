package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD decompose, drop combining marks, recompose: accented input ends up
// plain ASCII where possible ("arena sílice" becomes "arena silice").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Word separators that should split tokens rather than vanish.
var sepReplacer = strings.NewReplacer("-", " ", "_", " ", "/", " ")

// Everything outside lowercase ASCII letters, digits, space and literal
// period is dropped.
var reDisallowed = regexp.MustCompile(`[^a-z0-9 .]+`)

var reDigitRun = regexp.MustCompile(`[0-9]+`)

// Whole-word plural→singular rewrites for the product vocabulary. The
// right-hand sides are fixed points of the table, which keeps Normalize
// idempotent.
var singulars = map[string]string{
	"arenas":   "arena",
	"areneros": "arenero",
	"juguetes": "juguete",
	"collares": "collar",
	"pelotas":  "pelota",
	"premios":  "premio",
	"gatos":    "gato",
	"perros":   "perro",
}

// Normalize is the matching pipeline: lower-case, strip accents, split on
// hyphen/underscore/slash, drop everything but [a-z0-9 .], singularize known
// plurals, collapse whitespace. Total: any input maps to some (possibly
// empty) form.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	if t, _, err := transform.String(stripMarks, out); err == nil {
		out = t
	}
	out = sepReplacer.Replace(out)
	out = reDisallowed.ReplaceAllString(out, "")

	fields := strings.Fields(out)
	for i, w := range fields {
		if sg, ok := singulars[w]; ok {
			fields[i] = sg
		}
	}
	return strings.Join(fields, " ")
}

// Tokenize returns the whitespace-separated tokens of the normalized form.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// ExtractZone reduces a free-text zone ("Zona 10", "zona-10", "10") to its
// first digit run. Comparison downstream is strict string equality, so "9"
// and "09" are distinct zones.
func ExtractZone(s string) string {
	return reDigitRun.FindString(s)
}
