package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func scoredItem(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		items []*core.Item
		want  []int64
	}{
		{
			name:  "sort and truncate",
			n:     2,
			items: []*core.Item{scoredItem(1, 1.0), scoredItem(2, 3.0), scoredItem(3, 2.0)},
			want:  []int64{2, 3},
		},
		{
			name:  "tie-break by lower id",
			n:     3,
			items: []*core.Item{scoredItem(5, 2.0), scoredItem(3, 2.0), scoredItem(4, 2.0)},
			want:  []int64{3, 4, 5},
		},
		{
			name:  "n zero sorts without truncation",
			n:     0,
			items: []*core.Item{scoredItem(2, 1.0), scoredItem(1, 5.0)},
			want:  []int64{1, 2},
		},
		{
			name:  "fewer items than n",
			n:     10,
			items: []*core.Item{scoredItem(1, 1.0)},
			want:  []int64{1},
		},
		{
			name:  "empty",
			n:     5,
			items: nil,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, tt.items)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(out), len(tt.want))
			}
			for i, id := range tt.want {
				if out[i].ID != id {
					t.Errorf("out[%d] = %d, want %d", i, out[i].ID, id)
				}
			}
		})
	}
}

// 输入切片不被改动：Process 返回排序后的副本。
func TestTopNNodeDoesNotMutateInput(t *testing.T) {
	items := []*core.Item{scoredItem(1, 1.0), scoredItem(2, 5.0)}
	node := &TopNNode{N: 1}
	if _, err := node.Process(context.Background(), nil, items); err != nil {
		t.Fatal(err)
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Error("input slice was reordered")
	}
}
