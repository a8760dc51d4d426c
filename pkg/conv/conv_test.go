package conv

import "testing"

func TestConfigGetInt(t *testing.T) {
	m := map[string]any{
		"int":    3,
		"int64":  int64(4),
		"float":  5.0,
		"string": "6",
	}
	tests := []struct {
		key  string
		want int
	}{
		{"int", 3},
		{"int64", 4},
		{"float", 5}, // YAML/JSON 数字常以 float64 出现
		{"string", 9},
		{"missing", 9},
	}
	for _, tt := range tests {
		if got := ConfigGetInt(m, tt.key, 9); got != tt.want {
			t.Errorf("ConfigGetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestConfigGetFloat(t *testing.T) {
	m := map[string]any{"f": 4.5, "i": 2}
	if got := ConfigGetFloat(m, "f", 0); got != 4.5 {
		t.Errorf("got %v, want 4.5", got)
	}
	if got := ConfigGetFloat(m, "i", 0); got != 2.0 {
		t.Errorf("got %v, want 2.0", got)
	}
	if got := ConfigGetFloat(nil, "f", 1.5); got != 1.5 {
		t.Errorf("got %v, want default 1.5", got)
	}
}

func TestConfigGetStrings(t *testing.T) {
	m := map[string]any{"rules": []any{"a", 1, "b"}}
	got := ConfigGetStrings(m, "rules")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
	if got := ConfigGetStrings(m, "missing"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
