package service

// rankThresholds maps an inclusive XP lower bound to a rank label.
// Ordered ascending; the last entry is terminal.
var rankThresholds = []struct {
	MinXP int
	Label string
}{
	{0, "Code Novice"},
	{100, "Code Apprentice"},
	{500, "Code Contributor"},
	{1500, "Code Master"},
	{3000, "Code Expert"},
	{5000, "Open Source Legend"},
}

// RankFor maps accumulated XP to a rank label. Monotonic: rank never
// decreases as XP increases.
func RankFor(xp int) string {
	rank := rankThresholds[0].Label
	for _, t := range rankThresholds {
		if xp >= t.MinXP {
			rank = t.Label
		}
	}
	return rank
}

// XPToNext returns the XP remaining until the next rank, or 0 at the
// terminal rank.
func XPToNext(xp int) int {
	for _, t := range rankThresholds {
		if xp < t.MinXP {
			return t.MinXP - xp
		}
	}
	return 0
}
