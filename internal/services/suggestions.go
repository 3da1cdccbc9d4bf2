package services

import (
	"sort"
	"time"

	"github.com/friendorbit/orbit/internal/models"
)

// FullBatteryThreshold is the score above which the suggestion pool
// opens up to on-track outer-rim people as an outreach nudge.
const FullBatteryThreshold = 80

type Suggestion struct {
	PersonID     uint    `json:"id"`
	Name         string  `json:"name"`
	GravityScore float64 `json:"gravity_score"`
	OrbitZone    string  `json:"orbit_zone"`
	Urgency      float64 `json:"urgency"`
	Reason       string  `json:"reason"`
}

// SuggestionCap is the step function from battery score to the maximum
// number of people suggested.
func SuggestionCap(batteryScore int) int {
	switch {
	case batteryScore <= 20:
		return 1
	case batteryScore <= 50:
		return 2
	case batteryScore <= FullBatteryThreshold:
		return 4
	default:
		return 6
	}
}

type suggestionCandidate struct {
	person  models.Person
	urgency float64
	onTrack bool
}

// Suggest picks and ranks people to contact for the given battery score.
// Candidates are non-archived people outside their cadence window;
// someone never contacted is overdue since creation. Above
// FullBatteryThreshold, on-track outer-zone people join the pool.
// Ordering is urgency (days since contact over cadence) descending, then
// gravity ascending, then id, so identical inputs always yield identical
// output.
func Suggest(people []models.Person, batteryScore int, now time.Time) []Suggestion {
	limit := SuggestionCap(batteryScore)

	candidates := make([]suggestionCandidate, 0, len(people))
	for _, person := range people {
		if person.Archived {
			continue
		}

		cadence := person.CadenceDays
		if cadence <= 0 {
			cadence = models.DefaultCadenceDays(person.RelationshipType)
		}

		since := person.CreatedAt
		if person.LastInteraction != nil {
			since = *person.LastInteraction
		}
		daysSince := now.Sub(since).Hours() / 24
		if daysSince < 0 {
			daysSince = 0
		}

		urgency := daysSince / float64(cadence)
		if urgency >= 1 {
			candidates = append(candidates, suggestionCandidate{person: person, urgency: urgency})
			continue
		}
		if batteryScore > FullBatteryThreshold && Zone(person.GravityScore) == ZoneOuter {
			candidates = append(candidates, suggestionCandidate{person: person, urgency: urgency, onTrack: true})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].urgency != candidates[j].urgency {
			return candidates[i].urgency > candidates[j].urgency
		}
		if candidates[i].person.GravityScore != candidates[j].person.GravityScore {
			return candidates[i].person.GravityScore < candidates[j].person.GravityScore
		}
		return candidates[i].person.ID < candidates[j].person.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		zone := Zone(candidate.person.GravityScore)
		suggestions = append(suggestions, Suggestion{
			PersonID:     candidate.person.ID,
			Name:         candidate.person.Name,
			GravityScore: candidate.person.GravityScore,
			OrbitZone:    zone,
			Urgency:      candidate.urgency,
			Reason:       suggestionReason(zone, candidate.urgency, candidate.onTrack),
		})
	}
	return suggestions
}

func suggestionReason(zone string, urgency float64, onTrack bool) string {
	if onTrack {
		return "keep the spark alive"
	}
	if zone == ZoneOuter {
		if urgency >= 2 {
			return "slipping out of orbit"
		}
		return "drifting in the outer rim"
	}
	if urgency >= 2 {
		return "long overdue for a check-in"
	}
	return "overdue for a check-in"
}
