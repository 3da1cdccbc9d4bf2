package services

import (
	"sort"

	"github.com/friendorbit/orbit/internal/models"
)

const driftingNamesLimit = 5

type OrbitStats struct {
	TotalPeople    int            `json:"total_people"`
	InnerCircle    int            `json:"inner_circle"`
	GoldilocksZone int            `json:"goldilocks_zone"`
	OuterRim       int            `json:"outer_rim"`
	ByType         map[string]int `json:"by_type"`
	DriftingCount  int            `json:"drifting_count"`
	DriftingNames  []string       `json:"drifting_names"`
}

// BuildOrbitStats summarizes a user's active orbit. Drifting means the
// outer zone per the shared thresholds; names are the most distant few.
func BuildOrbitStats(people []models.Person) OrbitStats {
	stats := OrbitStats{
		ByType:        make(map[string]int),
		DriftingNames: []string{},
	}

	drifting := make([]models.Person, 0)
	for _, person := range people {
		if person.Archived {
			continue
		}

		stats.TotalPeople++
		stats.ByType[person.RelationshipType]++

		switch Zone(person.GravityScore) {
		case ZoneInner:
			stats.InnerCircle++
		case ZoneGoldilocks:
			stats.GoldilocksZone++
		default:
			stats.OuterRim++
			drifting = append(drifting, person)
		}
	}

	sort.Slice(drifting, func(i, j int) bool {
		if drifting[i].GravityScore != drifting[j].GravityScore {
			return drifting[i].GravityScore < drifting[j].GravityScore
		}
		return drifting[i].ID < drifting[j].ID
	})

	stats.DriftingCount = len(drifting)
	for _, person := range drifting {
		if len(stats.DriftingNames) == driftingNamesLimit {
			break
		}
		stats.DriftingNames = append(stats.DriftingNames, person.Name)
	}
	return stats
}
