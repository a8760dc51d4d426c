package eval

import (
	"math"
	"testing"
)

func TestMetricsKnownValues(t *testing.T) {
	recommended := []int64{1, 2, 3}
	relevant := map[int64]struct{}{1: {}, 3: {}}

	if got := RecallAtK(recommended, relevant); got != 1.0 {
		t.Errorf("RecallAtK = %v, want 1.0", got)
	}
	if got := PrecisionAtK(recommended, relevant, 3); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("PrecisionAtK = %v, want 2/3", got)
	}

	// DCG = 1/log2(2) + 1/log2(4) = 1.5（命中第 1、3 位）
	// IDCG = 1/log2(2) + 1/log2(3)
	wantNDCG := 1.5 / (1.0 + 1.0/math.Log2(3))
	if got := NDCGAtK(recommended, relevant, 3); math.Abs(got-wantNDCG) > 1e-9 {
		t.Errorf("NDCGAtK = %v, want %v", got, wantNDCG)
	}
}

func TestMetricsBounds(t *testing.T) {
	tests := []struct {
		name        string
		recommended []int64
		relevant    map[int64]struct{}
	}{
		{"perfect", []int64{1, 2}, map[int64]struct{}{1: {}, 2: {}}},
		{"no hits", []int64{9, 8}, map[int64]struct{}{1: {}}},
		{"empty recommendations", nil, map[int64]struct{}{1: {}}},
		{"empty relevant", []int64{1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := 2
			for name, got := range map[string]float64{
				"recall":    RecallAtK(tt.recommended, tt.relevant),
				"precision": PrecisionAtK(tt.recommended, tt.relevant, k),
				"ndcg":      NDCGAtK(tt.recommended, tt.relevant, k),
			} {
				if got < 0 || got > 1 {
					t.Errorf("%s = %v out of [0, 1]", name, got)
				}
			}
		})
	}
}

func TestNDCGPerfectRankingIsOne(t *testing.T) {
	recommended := []int64{5, 6, 7}
	relevant := map[int64]struct{}{5: {}, 6: {}, 7: {}}
	if got := NDCGAtK(recommended, relevant, 3); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("NDCGAtK = %v, want 1.0", got)
	}
}
