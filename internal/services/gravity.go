package services

import (
	"math"
	"time"

	"github.com/friendorbit/orbit/internal/models"
)

// InteractionBoost is the fixed gravity increment for logging contact.
const InteractionBoost = 15.0

// Base decay rate per relationship type, in gravity points per day.
// Lower means slower: the closest ties fade the slowest, so the ordering
// partner < family < friend is load-bearing and guarded by tests.
var baseDecayRates = map[string]float64{
	models.RelationshipPartner: 1.0,
	models.RelationshipFamily:  2.0,
	models.RelationshipFriend:  3.0,
}

// Archetype multipliers. Anchors are steady and fade slower; Sparks and
// Comets burn out fast without attention; Sages are neutral.
var archetypeMultipliers = map[string]float64{
	models.ArchetypeAnchor: 0.8,
	models.ArchetypeSage:   1.0,
	models.ArchetypeSpark:  1.2,
	models.ArchetypeComet:  1.4,
}

var strictnessMultipliers = map[string]float64{
	models.StrictnessGentle: 0.6,
	models.StrictnessNormal: 1.0,
	models.StrictnessStrict: 1.5,
}

func ClampScore(score float64) float64 {
	if score < models.GravityScoreMin {
		return models.GravityScoreMin
	}
	if score > models.GravityScoreMax {
		return models.GravityScoreMax
	}
	return score
}

// DecayRate combines the type, archetype and strictness tables into
// points lost per day. Unknown values fall back to the friend rate and
// neutral multipliers.
func DecayRate(relationshipType string, archetype string, strictness string) float64 {
	base, ok := baseDecayRates[relationshipType]
	if !ok {
		base = baseDecayRates[models.RelationshipFriend]
	}

	archetypeMult := 1.0
	if mult, ok := archetypeMultipliers[archetype]; ok {
		archetypeMult = mult
	}

	strictnessMult := 1.0
	if mult, ok := strictnessMultipliers[strictness]; ok {
		strictnessMult = mult
	}

	return base * archetypeMult * strictnessMult
}

type DecayResult struct {
	Score       float64
	DaysElapsed int
	Applied     bool
}

// decayBaseline is the moment decay counts from: the freshest of last
// interaction, last applied decay and creation.
func decayBaseline(person models.Person) time.Time {
	baseline := person.CreatedAt
	if person.LastInteraction != nil && person.LastInteraction.After(baseline) {
		baseline = *person.LastInteraction
	}
	if person.LastDecayApplied != nil && person.LastDecayApplied.After(baseline) {
		baseline = *person.LastDecayApplied
	}
	return baseline
}

// ApplyDecay computes the decayed score for a person as of now. Pinned
// people are untouched. Less than one whole day since the baseline is a
// pure no-op (Applied=false, nothing to persist), which makes repeated
// sweeps within the same day idempotent. Decay never raises a score.
func ApplyDecay(person models.Person, now time.Time, strictness string) DecayResult {
	if person.Pinned {
		return DecayResult{Score: person.GravityScore}
	}

	daysElapsed := int(now.Sub(decayBaseline(person)).Hours() / 24)
	if daysElapsed < 1 {
		return DecayResult{Score: person.GravityScore}
	}

	rate := DecayRate(person.RelationshipType, person.Archetype, strictness)
	score := ClampScore(person.GravityScore - rate*float64(daysElapsed))
	score = math.Round(score*10) / 10

	return DecayResult{
		Score:       score,
		DaysElapsed: daysElapsed,
		Applied:     true,
	}
}

// ApplyInteraction returns the boosted score for logging contact now.
// The caller persists the score together with last_interaction=now,
// which also resets the decay baseline. Pinned people accept boosts.
func ApplyInteraction(person models.Person) float64 {
	return ClampScore(person.GravityScore + InteractionBoost)
}
