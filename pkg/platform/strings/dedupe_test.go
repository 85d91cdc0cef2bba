package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "removes duplicates preserving order",
			input: []string{"Bo", "Kenema", "Bo", "Kono"},
			want:  []string{"Bo", "Kenema", "Kono"},
		},
		{
			name:  "trims whitespace before comparing",
			input: []string{"  Bo ", "Bo", " Kenema"},
			want:  []string{"Bo", "Kenema"},
		},
		{
			name:  "drops empty and blank elements",
			input: []string{"", "  ", "Kailahun"},
			want:  []string{"Kailahun"},
		},
		{
			name:  "nil stays nil",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitAndDedupe(t *testing.T) {
	assert.Equal(t, []string{"Bo", "Kono"}, SplitAndDedupe("Bo, Bo ,Kono"))
	assert.Nil(t, SplitAndDedupe("  "))
	assert.Nil(t, SplitAndDedupe(""))
	assert.Empty(t, SplitAndDedupe(",,,"))
}
