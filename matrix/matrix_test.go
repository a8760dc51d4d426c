package matrix

import (
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestBuildEmptyInput(t *testing.T) {
	m := Build(nil, 0)
	if m == nil {
		t.Fatal("expected non-nil matrix")
	}
	if m.NumItems() != 0 || m.NumUsers() != 0 {
		t.Errorf("expected zero-size matrix, got %d items, %d users", m.NumItems(), m.NumUsers())
	}
}

func TestBuildMinRatingsFilter(t *testing.T) {
	ratings := []core.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 1, MovieID: 20, Rating: 3.0}, // 只有一条评分
	}

	tests := []struct {
		name       string
		minRatings int
		wantItems  int
	}{
		{"no filter", 0, 2},
		{"min 1 keeps all", 1, 2},
		{"min 2 drops movie 20", 2, 1},
		{"min 3 drops all", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(ratings, tt.minRatings)
			if m.NumItems() != tt.wantItems {
				t.Errorf("NumItems = %d, want %d", m.NumItems(), tt.wantItems)
			}
		})
	}
}

func TestBuildDedupKeepsLatest(t *testing.T) {
	// 同一 (user, movie) 两条评分，保留时间戳更大的一条
	ratings := []core.Rating{
		{UserID: 1, MovieID: 10, Rating: 2.0, Timestamp: 100},
		{UserID: 1, MovieID: 10, Rating: 5.0, Timestamp: 200},
	}
	m := Build(ratings, 0)
	if m.NumItems() != 1 {
		t.Fatalf("NumItems = %d, want 1", m.NumItems())
	}
	row := m.Rows[0]
	if len(row.Values) != 1 || row.Values[0] != 5.0 {
		t.Errorf("expected single value 5.0, got %v", row.Values)
	}
}

func TestBuildStableIndices(t *testing.T) {
	ratings := []core.Rating{
		{UserID: 7, MovieID: 30, Rating: 3.0},
		{UserID: 2, MovieID: 10, Rating: 5.0},
		{UserID: 5, MovieID: 20, Rating: 4.0},
	}
	m := Build(ratings, 0)

	wantMovies := []int64{10, 20, 30}
	for i, id := range wantMovies {
		if m.MovieIDs[i] != id {
			t.Errorf("MovieIDs[%d] = %d, want %d", i, m.MovieIDs[i], id)
		}
		if idx, ok := m.MovieIndex(id); !ok || idx != i {
			t.Errorf("MovieIndex(%d) = %d,%v, want %d,true", id, idx, ok, i)
		}
	}
	wantUsers := []int64{2, 5, 7}
	for i, id := range wantUsers {
		if m.UserIDs[i] != id {
			t.Errorf("UserIDs[%d] = %d, want %d", i, m.UserIDs[i], id)
		}
	}
}

func TestRowDot(t *testing.T) {
	tests := []struct {
		name string
		a, b Row
		want float64
	}{
		{
			name: "overlap",
			a:    Row{Users: []int32{0, 1, 3}, Values: []float64{1, 2, 3}},
			b:    Row{Users: []int32{1, 3, 4}, Values: []float64{5, 7, 9}},
			want: 2*5 + 3*7,
		},
		{
			name: "disjoint",
			a:    Row{Users: []int32{0, 1}, Values: []float64{1, 2}},
			b:    Row{Users: []int32{2, 3}, Values: []float64{5, 7}},
			want: 0,
		},
		{
			name: "empty",
			a:    Row{},
			b:    Row{Users: []int32{0}, Values: []float64{1}},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Dot(tt.b); got != tt.want {
				t.Errorf("Dot = %v, want %v", got, tt.want)
			}
		})
	}
}
