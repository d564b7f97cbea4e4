package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Quantum Basics", "Quantum_Basics.pdf"},
		{"  spaced   out  title ", "spaced_out_title.pdf"},
		{"single", "single.pdf"},
		{"", "worksheet.pdf"},
		{"   ", "worksheet.pdf"},
		{"tabs\tand\nnewlines", "tabs_and_newlines.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExportFilename(tt.title))
	}
}
