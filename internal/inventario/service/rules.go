package service

import "regexp"

// RuleReason tags suggestions produced by the rule fallback, as opposed to
// curated catalog rows.
const RuleReason = "suggestion by product type"

// RuleType is the tipo carried by rule-based suggestions.
const RuleType = "regla"

// Rule pairs a pattern over the raw lower-cased product text with an
// ordered suggestion list.
type Rule struct {
	Pattern     *regexp.Regexp
	Suggestions []string
}

// DefaultRules is the fallback table consulted only when the complements
// catalog yields nothing. Order matters: the first matching rule's
// suggestions lead, later matches only append novel items.
func DefaultRules() []Rule {
	return []Rule{
		{
			Pattern:     regexp.MustCompile(`\bbionic\b`),
			Suggestions: []string{"Premios de entrenamiento", "Collar reforzado", "Pelota interactiva"},
		},
		{
			Pattern:     regexp.MustCompile(`\barena\b|\barenero\b`),
			Suggestions: []string{"Pala para arena", "Tapete atrapa arena", "Desodorante para arenero"},
		},
		{
			Pattern:     regexp.MustCompile(`\bjuguete(s)?\b|\bpelota(s)?\b`),
			Suggestions: []string{"Premios para gato", "Rascador de carton", "Hierba gatera"},
		},
		{
			Pattern:     regexp.MustCompile(`\bcollar(es)?\b|\bcorrea(s)?\b`),
			Suggestions: []string{"Placa de identificacion", "Correa retractil"},
		},
	}
}

// DefaultSuggestions is emitted when no catalog row and no rule matched:
// never answer a complements question with a bare empty list.
var DefaultSuggestions = []string{"Pala para arena", "Juguete para gato", "Premios para gato"}
