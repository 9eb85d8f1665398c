package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-agent/model"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCatalogFile(t,
		"tipo_maquina,modelo,ubicacion\n"+
			"Generador,Generac G25,Guadalajara\n"+
			"Plataforma de elevación, LGMG AS0607 ,Monterrey\n")

	items, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.CatalogItem{MachineType: "Generador", Model: "Generac G25", Location: "Guadalajara"}, items[0])
	// cell whitespace is trimmed
	assert.Equal(t, "LGMG AS0607", items[1].Model)
}

func TestLoadCSV_ColumnOrderIsFree(t *testing.T) {
	path := writeCatalogFile(t,
		"ubicacion,modelo,tipo_maquina\n"+
			"Monterrey,CAT 320D,Excavadora\n")

	items, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Excavadora", items[0].MachineType)
	assert.Equal(t, "Monterrey", items[0].Location)
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	path := writeCatalogFile(t, "tipo_maquina,modelo\nGenerador,G25\n")
	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "no-existe.csv"))
	assert.Error(t, err)
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	path := writeCatalogFile(t, "tipo_maquina,modelo,ubicacion\n")
	items, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, items)
}
