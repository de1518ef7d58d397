package service

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"inventario-mcp/internal/fileio"
	"inventario-mcp/internal/inventario/model"
)

// MaxComplements caps how many catalog suggestions one query may return.
const MaxComplements = 5

// Catalog is the base→complement pairs table, reloaded independently of
// the inventory. A missing source file is not an error: the catalog stays
// empty until the file shows up and a later refresh sees it.
type Catalog struct {
	path    string
	aliases AliasTable
	log     zerolog.Logger

	mu   sync.Mutex
	snap atomic.Pointer[catalogSnapshot]
}

type catalogSnapshot struct {
	mtime time.Time
	rows  []model.ComplementLink
}

func NewCatalog(path string, aliases AliasTable, log zerolog.Logger) *Catalog {
	return &Catalog{path: path, aliases: aliases, log: log.With().Str("table", "complementos").Logger()}
}

// Refresh mirrors Index.Refresh, except that a vanished source file swaps
// in an empty table instead of failing.
func (c *Catalog) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := os.Stat(c.path)
	if err != nil {
		if cur := c.snap.Load(); cur == nil || len(cur.rows) > 0 {
			c.snap.Store(&catalogSnapshot{})
		}
		return nil
	}
	if cur := c.snap.Load(); cur != nil && cur.mtime.Equal(st.ModTime()) && !cur.mtime.IsZero() {
		return nil
	}

	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	maps, err := fileio.ReadAnyMaps(f, c.path, 1)
	if err != nil {
		return err
	}

	rows := make([]model.ComplementLink, 0, len(maps))
	for _, rec := range maps {
		l := complementFrom(rec)
		if l.ComplementoNombre == "" {
			continue // a complement row without a complement is noise
		}
		rows = append(rows, l)
	}

	c.snap.Store(&catalogSnapshot{mtime: st.ModTime(), rows: rows})
	c.log.Debug().Int("rows", len(rows)).Time("mtime", st.ModTime()).Msg("table reloaded")
	return nil
}

// Match resolves the query through the alias table and returns up to
// MaxComplements links, deduplicated by (complement name, complement code)
// in first-seen order. Candidates come from two tiers: rows whose base code
// is in availableCodes, and rows whose normalized base name contains every
// query token — relaxed to any token when the strict tier is empty.
func (c *Catalog) Match(productQuery string, availableCodes map[string]struct{}) []model.ComplementLink {
	out := []model.ComplementLink{}
	snap := c.snap.Load()
	if snap == nil || len(snap.rows) == 0 {
		return out
	}

	canon := c.aliases.Canonicalize(productQuery)
	tokens := strings.Fields(canon)

	byCode := []model.ComplementLink{}
	for _, l := range snap.rows {
		if l.BaseCodigoNorm == "" {
			continue
		}
		if _, ok := availableCodes[l.BaseCodigoNorm]; ok {
			byCode = append(byCode, l)
		}
	}

	byName := filterByTokens(snap.rows, tokens, true)
	if len(byName) == 0 {
		byName = filterByTokens(snap.rows, tokens, false)
	}

	seen := map[[2]string]struct{}{}
	for _, l := range append(byCode, byName...) {
		key := [2]string{l.ComplementoNombre, l.ComplementoCodigo}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
		if len(out) == MaxComplements {
			break
		}
	}
	return out
}

func filterByTokens(rows []model.ComplementLink, tokens []string, all bool) []model.ComplementLink {
	if len(tokens) == 0 {
		return nil
	}
	var out []model.ComplementLink
	for _, l := range rows {
		if containsTokens(l.BaseNombreNorm, tokens, all) {
			out = append(out, l)
		}
	}
	return out
}

func containsTokens(haystack string, tokens []string, all bool) bool {
	for _, t := range tokens {
		hit := strings.Contains(haystack, t)
		if all && !hit {
			return false
		}
		if !all && hit {
			return true
		}
	}
	return all
}

func complementFrom(rec map[string]string) model.ComplementLink {
	base := field(rec, "base_nombre")
	baseCode := field(rec, "base_codigo")
	comp := field(rec, "complemento_nombre")
	return model.ComplementLink{
		BaseNombre:            base,
		BaseCodigo:            baseCode,
		ComplementoNombre:     comp,
		ComplementoCodigo:     field(rec, "complemento_codigo"),
		Tipo:                  field(rec, "tipo"),
		Razon:                 field(rec, "razon"),
		BaseNombreNorm:        Normalize(base),
		BaseCodigoNorm:        strings.ToLower(baseCode),
		ComplementoNombreNorm: Normalize(comp),
	}
}
