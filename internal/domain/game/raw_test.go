package game

import (
	"encoding/json"
	"testing"
)

func TestNumUnmarshalEncodings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Num
	}{
		{"number", `7`, 7},
		{"integral float", `3.0`, 3},
		{"decimal string", `"12"`, 12},
		{"hex string", `"0x1a"`, 26},
		{"uppercase hex", `"0X10"`, 16},
		{"bool true", `true`, 1},
		{"bool false", `false`, 0},
		{"null", `null`, 0},
		{"enum value", `{"value":"0x10"}`, 16},
		{"option some", `{"Some":3}`, 3},
		{"nested variant", `{"variant":{"Active":5}}`, 5},
		{"garbage string", `"not a number"`, 0},
		{"negative", `-3`, 0},
		{"empty string", `""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Num
			if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
				t.Fatalf("Unmarshal(%s) = %v", tt.in, err)
			}
			if n != tt.want {
				t.Fatalf("Unmarshal(%s) = %d, want %d", tt.in, n, tt.want)
			}
		})
	}
}

func TestNumNeverFailsSnapshotDecode(t *testing.T) {
	// A malformed scalar degrades to zero without failing sibling fields.
	raw := []byte(`{"health":"bogus","xp":"0x19","gold":5}`)
	var adv RawAdventurer
	if err := json.Unmarshal(raw, &adv); err != nil {
		t.Fatalf("Unmarshal = %v", err)
	}
	if adv.Health != 0 {
		t.Fatalf("Health = %d, want 0", adv.Health)
	}
	if adv.XP != 25 {
		t.Fatalf("XP = %d, want 25", adv.XP)
	}
	if adv.Gold != 5 {
		t.Fatalf("Gold = %d, want 5", adv.Gold)
	}
}
