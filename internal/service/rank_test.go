package service

import "testing"

func TestRankFor(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "Code Novice"},
		{99, "Code Novice"},
		{100, "Code Apprentice"},
		{499, "Code Apprentice"},
		{500, "Code Contributor"},
		{1500, "Code Master"},
		{3000, "Code Expert"},
		{4999, "Code Expert"},
		{5000, "Open Source Legend"},
		{1000000, "Open Source Legend"},
	}

	for _, tt := range tests {
		if got := RankFor(tt.xp); got != tt.want {
			t.Errorf("RankFor(%d) = %q, want %q", tt.xp, got, tt.want)
		}
	}
}

func TestRankIsMonotonic(t *testing.T) {
	rankIndex := func(label string) int {
		for i, r := range rankThresholds {
			if r.Label == label {
				return i
			}
		}
		t.Fatalf("unknown rank %q", label)
		return -1
	}

	prev := rankIndex(RankFor(0))
	for xp := 1; xp <= 6000; xp++ {
		cur := rankIndex(RankFor(xp))
		if cur < prev {
			t.Fatalf("rank decreased at xp=%d", xp)
		}
		prev = cur
	}
}

func TestXPToNext(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 100},
		{99, 1},
		{100, 400},
		{4999, 1},
		{5000, 0},
		{9999, 0},
	}

	for _, tt := range tests {
		if got := XPToNext(tt.xp); got != tt.want {
			t.Errorf("XPToNext(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}

	// XPToNext is zero exactly at the terminal rank.
	for xp := 0; xp <= 6000; xp++ {
		terminal := RankFor(xp) == "Open Source Legend"
		if (XPToNext(xp) == 0) != terminal {
			t.Fatalf("XPToNext(%d) == 0 must hold iff rank is terminal", xp)
		}
	}
}
