package services

// Orbit zones derived from gravity score. These constants are the single
// source of truth: the decay sweep, the drift digest, the suggestion
// engine and the stats endpoint all classify through Zone.
const (
	ZoneInner      = "inner"
	ZoneGoldilocks = "goldilocks"
	ZoneOuter      = "outer"
)

const (
	InnerZoneThreshold      = 60.0
	GoldilocksZoneThreshold = 30.0
)

func Zone(score float64) string {
	switch {
	case score >= InnerZoneThreshold:
		return ZoneInner
	case score >= GoldilocksZoneThreshold:
		return ZoneGoldilocks
	default:
		return ZoneOuter
	}
}

// zoneRank orders zones by closeness so digest crossings can be compared.
func zoneRank(zone string) int {
	switch zone {
	case ZoneInner:
		return 2
	case ZoneGoldilocks:
		return 1
	case ZoneOuter:
		return 0
	default:
		return -1
	}
}
