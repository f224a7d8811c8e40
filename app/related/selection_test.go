package related

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrueSelection_NoneCheckedMeansAll(t *testing.T) {
	selection := map[string]bool{"article": false, "page": false, "event": false}

	got := TrueSelection(selection, false).Keys()
	want := []string{"article", "event", "page"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrueSelection mismatch (-want +got):\n%s", diff)
	}
}

func TestTrueSelection_NoneCheckedNegatedIsEmpty(t *testing.T) {
	selection := map[string]bool{"article": false, "page": false}

	got := TrueSelection(selection, true)
	if len(got) != 0 {
		t.Errorf("Expected empty selection, got %v", got.Keys())
	}
}

func TestTrueSelection_EmptyMap(t *testing.T) {
	if got := TrueSelection(map[string]bool{}, false); len(got) != 0 {
		t.Errorf("Expected empty result for empty map, got %v", got.Keys())
	}
	if got := TrueSelection(nil, true); len(got) != 0 {
		t.Errorf("Expected empty result for nil map, got %v", got.Keys())
	}
}

func TestTrueSelection_SubsetAndComplement(t *testing.T) {
	tests := []struct {
		name      string
		selection map[string]bool
		negate    bool
		want      []string
	}{
		{
			name:      "single checked",
			selection: map[string]bool{"article": true, "page": false, "event": false},
			want:      []string{"article"},
		},
		{
			name:      "single checked negated",
			selection: map[string]bool{"article": true, "page": false, "event": false},
			negate:    true,
			want:      []string{"event", "page"},
		},
		{
			name:      "all checked",
			selection: map[string]bool{"article": true, "page": true},
			want:      []string{"article", "page"},
		},
		{
			name:      "all checked negated",
			selection: map[string]bool{"article": true, "page": true},
			negate:    true,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrueSelection(tt.selection, tt.negate).Keys()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TrueSelection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrueSelection_NegateIsComplementForNonEmptySelection(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}

	// every non-empty combination of checked keys
	for mask := 1; mask < 1<<len(keys); mask++ {
		selection := make(map[string]bool, len(keys))
		for i, k := range keys {
			selection[k] = mask&(1<<i) != 0
		}

		plain := TrueSelection(selection, false)
		negated := TrueSelection(selection, true)

		for _, k := range keys {
			if plain.Has(k) != selection[k] {
				t.Errorf("mask %b: key %s expected selected=%v", mask, k, selection[k])
			}
			if negated.Has(k) == plain.Has(k) {
				t.Errorf("mask %b: key %s must be in exactly one of plain/negated", mask, k)
			}
		}
	}
}
