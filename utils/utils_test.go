package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Torre De ILUMINACION", "torre de iluminacion"},
		{"folds accents", "Iluminación eléctrica", "iluminacion electrica"},
		{"strips punctuation", "CAT-320D, (usada)!", "cat 320d usada"},
		{"trims and collapses spaces", "  generador   25kva  ", "generador 25kva"},
		{"empty", "", ""},
		{"only punctuation", "¡¿?!...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"excavadora", "cat"}, SplitWords("excavadora cat"))
	assert.Empty(t, SplitWords(""))
}
