package rewards

type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// Inclusive lower bounds.
const (
	SilverThreshold   int64 = 1000
	GoldThreshold     int64 = 2500
	PlatinumThreshold int64 = 5000
)

// Classify maps cumulative earned points to a tier. Negative input is a caller
// bug and is treated as zero.
func Classify(points int64) Tier {
	switch {
	case points >= PlatinumThreshold:
		return TierPlatinum
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// Rank orders tiers ascending; unknown values rank below BRONZE.
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	}
	return 0
}

// PointsToNext returns how many points are missing to reach the next tier,
// or 0 at PLATINUM.
func PointsToNext(points int64) int64 {
	if points < 0 {
		points = 0
	}
	for _, th := range []int64{SilverThreshold, GoldThreshold, PlatinumThreshold} {
		if points < th {
			return th - points
		}
	}
	return 0
}
