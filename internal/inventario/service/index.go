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

// Index is the in-memory view of the store/stock dataset. The active table
// lives behind an atomic pointer: queries read whatever snapshot is
// published, Refresh builds a replacement off to the side and swaps it in
// one step. The mutex only serializes rebuilds.
type Index struct {
	path string
	log  zerolog.Logger

	mu   sync.Mutex
	snap atomic.Pointer[inventorySnapshot]
}

type inventorySnapshot struct {
	mtime time.Time
	rows  []model.StoreRecord
}

func NewIndex(path string, log zerolog.Logger) *Index {
	return &Index{path: path, log: log.With().Str("table", "inventario").Logger()}
}

// Refresh reloads the dataset when the source file's modification time has
// changed since the last load. On any error the previous snapshot stays
// active.
func (ix *Index) Refresh() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	st, err := os.Stat(ix.path)
	if err != nil {
		return err
	}
	if cur := ix.snap.Load(); cur != nil && cur.mtime.Equal(st.ModTime()) {
		return nil
	}

	f, err := os.Open(ix.path)
	if err != nil {
		return err
	}
	defer f.Close()

	maps, err := fileio.ReadAnyMaps(f, ix.path, 1)
	if err != nil {
		return err
	}

	rows := make([]model.StoreRecord, 0, len(maps))
	for _, rec := range maps {
		r := storeRecordFrom(rec)
		if r.Nombre == "" && r.Producto == "" {
			continue // malformed row, skip
		}
		rows = append(rows, r)
	}

	ix.snap.Store(&inventorySnapshot{mtime: st.ModTime(), rows: rows})
	ix.log.Debug().Int("rows", len(rows)).Time("mtime", st.ModTime()).Msg("table reloaded")
	return nil
}

// FindByZone returns the rows whose extracted zone equals the digit run of
// the input, in source order. An input without digits matches nothing.
func (ix *Index) FindByZone(zone string) []model.StoreRecord {
	out := []model.StoreRecord{}
	z := ExtractZone(zone)
	if z == "" {
		return out
	}
	snap := ix.snap.Load()
	if snap == nil {
		return out
	}
	for _, r := range snap.rows {
		if r.Zona == z {
			out = append(out, r)
		}
	}
	return out
}

// FindByProduct filters by zone first (when given), then keeps rows whose
// normalized product name contains normQuery as a substring.
func (ix *Index) FindByProduct(normQuery, zone string) []model.StoreRecord {
	out := []model.StoreRecord{}
	snap := ix.snap.Load()
	if snap == nil {
		return out
	}
	z := ""
	if strings.TrimSpace(zone) != "" {
		z = ExtractZone(zone)
		if z == "" {
			return out
		}
	}
	for _, r := range snap.rows {
		if z != "" && r.Zona != z {
			continue
		}
		if strings.Contains(r.ProductoNorm, normQuery) {
			out = append(out, r)
		}
	}
	return out
}

func storeRecordFrom(rec map[string]string) model.StoreRecord {
	raw := field(rec, "Zona")
	codigo := field(rec, "Codigo")
	producto := field(rec, "Producto")
	return model.StoreRecord{
		Nombre:       field(rec, "Nombre"),
		Calle:        field(rec, "Calle"),
		Ciudad:       field(rec, "Ciudad"),
		Zona:         ExtractZone(raw),
		Producto:     producto,
		Stock:        field(rec, "Stock"),
		Codigo:       codigo,
		ZonaRaw:      raw,
		ProductoNorm: Normalize(producto),
		CodigoNorm:   strings.ToLower(codigo),
	}
}

// field resolves a column value by exact header name first, then by a
// trimmed case-insensitive scan (hand-edited files are sloppy about header
// casing and padding).
func field(rec map[string]string, key string) string {
	if v, ok := rec[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range rec {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
