package archive_test

import (
	"testing"

	"github.com/fwojciec/sitesnap/archive"
	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "preserves first-seen order",
			in:   []string{"A", "B", "A", "C", "B"},
			want: []string{"A", "B", "C"},
		},
		{
			name: "no duplicates",
			in:   []string{"A", "B", "C"},
			want: []string{"A", "B", "C"},
		},
		{
			name: "empty input",
			in:   []string{},
			want: []string{},
		},
		{
			name: "all duplicates",
			in:   []string{"A", "A", "A"},
			want: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, archive.Dedupe(tt.in))
		})
	}
}
