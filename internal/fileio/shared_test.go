package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/charmap"
)

func TestReadAnyMapsCSV(t *testing.T) {
	csv := `Nombre,Zona,Producto
Tienda A,Zona 10,Arena Bionic
Tienda B,Zona 12,Arena Silice
`
	rows, err := ReadAnyMaps(strings.NewReader(csv), "inventario.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tienda A", rows[0]["Nombre"])
	assert.Equal(t, "Arena Silice", rows[1]["Producto"])
}

func TestReadAnyMapsUnsupportedExtension(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "datos.parquet", 1)
	assert.Error(t, err)
}

func TestCSVSkipsBlankRows(t *testing.T) {
	csv := "Nombre,Producto\nTienda A,Arena\n,\nTienda B,Pala\n"
	rows, err := ReadAnyMaps(strings.NewReader(csv), "x.csv", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCSVQuotedFields(t *testing.T) {
	csv := "Nombre,Calle\n\"Tienda, La Grande\",\"Av 1, local 2\"\n"
	rows, err := ReadAnyMaps(strings.NewReader(csv), "x.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tienda, La Grande", rows[0]["Nombre"])
}

func TestCSVWindows1252(t *testing.T) {
	// "Sílice económica" encoded as Windows-1252; padded so the detector
	// has enough signal to call it
	text := "Producto,Ciudad\nArena Sílice económica,Quetzaltenango\n" +
		strings.Repeat("más ácido fácil canción jabón,Chimaltenango\n", 40)
	enc, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	rows, rerr := ReadAnyMaps(strings.NewReader(enc), "x.csv", 1)
	require.NoError(t, rerr)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Arena Sílice económica", rows[0]["Producto"])
}

func TestPickHeader(t *testing.T) {
	rows := [][]string{{` "Nombre" `, "", "Zona"}}
	h := pickHeader(rows, 1)
	assert.Equal(t, []string{"Nombre", "Column 2", "Zona"}, h)
}

func TestRowsToMaps(t *testing.T) {
	rows := [][]string{
		{"Nombre", "Zona"},
		{"Tienda A", "10"},
		{"", ""},
		{"Tienda B"}, // short row pads missing columns with ""
	}
	out := rowsToMaps(rows, []string{"Nombre", "Zona"}, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "Tienda A", out[0]["Nombre"])
	assert.Equal(t, "", out[1]["Zona"])
}
