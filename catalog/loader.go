package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"lead-agent/model"
)

// LoadCSV reads the machinery catalog from a CSV file with columns
// tipo_maquina, modelo, ubicacion (header row required, order free).
// Callers that want the load-failure-tolerant behavior build an index over
// an empty slice when this returns an error.
func LoadCSV(path string) ([]model.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	typeIdx, ok1 := col["tipo_maquina"]
	modelIdx, ok2 := col["modelo"]
	locIdx, ok3 := col["ubicacion"]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("catalog header missing required columns, got %v", header)
	}

	var items []model.CatalogItem
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		items = append(items, model.CatalogItem{
			MachineType: strings.TrimSpace(record[typeIdx]),
			Model:       strings.TrimSpace(record[modelIdx]),
			Location:    strings.TrimSpace(record[locIdx]),
		})
	}
	return items, nil
}
