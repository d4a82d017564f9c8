package features_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"voxtract/internal/features"
)

func TestAllKeepsDeclaredOrder(t *testing.T) {
	got := features.All()
	want := []string{"prosody", "articulation", "phonation", "glottal"}
	if len(got) != len(want) {
		t.Fatalf("got %d families, want %d", len(got), len(want))
	}
	for i, family := range got {
		if family.Dir != want[i] {
			t.Fatalf("family %d = %q, want %q", i, family.Dir, want[i])
		}
	}
}

func TestSelectUsesDeclaredOrder(t *testing.T) {
	got, err := features.Select([]string{"Glottal", "prosody", "glottal"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 || got[0] != features.Prosody || got[1] != features.Glottal {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestSelectRejectsUnknown(t *testing.T) {
	if _, err := features.Select([]string{"timbre"}); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestSelectEmptyReturnsAll(t *testing.T) {
	got, err := features.Select([]string{" "})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != len(features.All()) {
		t.Fatalf("expected all families, got %v", got)
	}
}

func TestArrayValidate(t *testing.T) {
	cases := []struct {
		name    string
		array   features.Array
		wantErr bool
	}{
		{"vector", features.Vector([]float64{1, 2, 3}), false},
		{"matrix", features.Matrix(2, 2, []float64{1, 2, 3, 4}), false},
		{"empty vector", features.Vector(nil), false},
		{"mismatch", features.Matrix(2, 3, []float64{1, 2}), true},
		{"scalar", features.Array{Data: []float64{1}}, true},
		{"3-D", features.Array{Shape: []int{1, 1, 1}, Data: []float64{1}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.array.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSanitizeNaN(t *testing.T) {
	arr := features.Matrix(2, 2, []float64{1, math.NaN(), math.NaN(), 4})
	if !arr.HasNaN() {
		t.Fatal("expected NaN before sanitizing")
	}
	if n := features.SanitizeNaN(arr); n != 2 {
		t.Fatalf("replaced %d values, want 2", n)
	}
	if arr.HasNaN() {
		t.Fatal("expected no NaN after sanitizing")
	}
	if arr.Data[1] != 0 || arr.Data[2] != 0 || arr.Data[3] != 4 {
		t.Fatalf("unexpected data %v", arr.Data)
	}
}

func TestDenseRoundTrip(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	arr := features.Matrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if arr.Dims() != 2 || arr.Shape[0] != 2 || arr.Shape[1] != 3 {
		t.Fatalf("unexpected shape %v", arr.Shape)
	}
	if !mat.Equal(arr.Dense(), m) {
		t.Fatal("expected dense form to match source matrix")
	}
	if features.Vector(nil).Dense() != nil {
		t.Fatal("expected nil dense form for empty array")
	}
}
