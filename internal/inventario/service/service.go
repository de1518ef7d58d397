package service

import (
	"strings"

	"github.com/rs/zerolog"

	"inventario-mcp/internal/inventario/model"
)

// Engine answers the two inventory questions. It owns the refresh checks:
// every query starts by giving the backing tables a chance to hot-reload.
type Engine struct {
	inv   *Index
	cat   *Catalog
	rules []Rule
	log   zerolog.Logger
}

func NewEngine(inv *Index, cat *Catalog, rules []Rule, log zerolog.Logger) *Engine {
	return &Engine{inv: inv, cat: cat, rules: rules, log: log}
}

// FindStoresByZone returns the inventory rows for the zone's digit run, in
// source order. Zero matches is a normal empty answer.
func (e *Engine) FindStoresByZone(zone string) []model.StoreRecord {
	if err := e.inv.Refresh(); err != nil {
		e.log.Warn().Err(err).Msg("inventory refresh failed, serving last snapshot")
	}
	return e.inv.FindByZone(zone)
}

// RecommendComplements reports where the product is available (optionally
// restricted to a zone) and what to suggest alongside it. Suggestions come
// from the curated catalog; when the catalog has nothing, the rule table
// takes over, and as a last resort a fixed set of generic accessories.
// Never fails: the worst case is two empty lists.
func (e *Engine) RecommendComplements(productName, zone string) model.Recommendation {
	if err := e.inv.Refresh(); err != nil {
		e.log.Warn().Err(err).Msg("inventory refresh failed, serving last snapshot")
	}
	if err := e.cat.Refresh(); err != nil {
		e.log.Warn().Err(err).Msg("catalog refresh failed, serving last snapshot")
	}

	avail := e.inv.FindByProduct(Normalize(productName), zone)

	codes := make(map[string]struct{}, len(avail))
	for _, r := range avail {
		if r.CodigoNorm != "" {
			codes[r.CodigoNorm] = struct{}{}
		}
	}

	sugeridos := []model.Suggestion{}
	if links := e.cat.Match(productName, codes); len(links) > 0 {
		for _, l := range links {
			sugeridos = append(sugeridos, model.Suggestion{
				Nombre: l.ComplementoNombre,
				Codigo: l.ComplementoCodigo,
				Tipo:   l.Tipo,
				Razon:  l.Razon,
			})
		}
	} else {
		sugeridos = e.ruleFallback(productName)
	}

	return model.Recommendation{Disponibilidad: avail, Sugeridos: sugeridos}
}

// ruleFallback scans the rule table in order against the raw lower-cased
// product text. Every matching rule appends its suggestions, skipping ones
// already collected; when nothing fires, the generic defaults go out.
func (e *Engine) ruleFallback(productName string) []model.Suggestion {
	out := []model.Suggestion{}
	lower := strings.ToLower(productName)
	seen := map[string]struct{}{}

	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, model.Suggestion{Nombre: name, Tipo: RuleType, Razon: RuleReason})
	}

	for _, rule := range e.rules {
		if rule.Pattern.MatchString(lower) {
			for _, s := range rule.Suggestions {
				add(s)
			}
		}
	}
	if len(out) == 0 {
		for _, s := range DefaultSuggestions {
			add(s)
		}
	}
	return out
}
