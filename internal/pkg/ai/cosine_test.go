package ai

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdentity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
		t.Errorf("similarity(v, v) = %v, want 1", got)
	}
}

func TestCosineSimilaritySymmetry(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-4, 0.5, 2}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("similarity is not symmetric")
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	if got := CosineSimilarity(a, b); math.Abs(got+1) > 1e-9 {
		t.Errorf("similarity of opposite vectors = %v, want -1", got)
	}
}

func TestCosineSimilarityDegradesToZero(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"both nil", nil, nil},
		{"one nil", []float32{1, 2}, nil},
		{"both empty", []float32{}, []float32{}},
		{"mismatched length", []float32{1, 2, 3}, []float32{1, 2}},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CosineSimilarity(tc.a, tc.b); got != 0 {
				t.Errorf("got %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	a := []float32{0.9, -0.4, 2.2, 1.1}
	b := []float32{-1.3, 0.7, 0.2, 3.5}
	got := CosineSimilarity(a, b)
	if got < -1-1e-9 || got > 1+1e-9 {
		t.Errorf("similarity %v outside [-1, 1]", got)
	}
}
