package services

import (
	"testing"
	"time"

	"github.com/friendorbit/orbit/internal/models"
)

func testPerson(relationshipType string, archetype string, score float64, createdAt time.Time) models.Person {
	return models.Person{
		ID:               1,
		UserID:           1,
		Name:             "Test",
		RelationshipType: relationshipType,
		Archetype:        archetype,
		CadenceDays:      models.DefaultCadenceDays(relationshipType),
		GravityScore:     score,
		CreatedAt:        createdAt,
	}
}

func TestDecayRateOrderingByType(t *testing.T) {
	archetypes := []string{models.ArchetypeAnchor, models.ArchetypeSpark, models.ArchetypeSage, models.ArchetypeComet}
	strictnesses := []string{models.StrictnessGentle, models.StrictnessNormal, models.StrictnessStrict}

	for _, archetype := range archetypes {
		for _, strictness := range strictnesses {
			partner := DecayRate(models.RelationshipPartner, archetype, strictness)
			family := DecayRate(models.RelationshipFamily, archetype, strictness)
			friend := DecayRate(models.RelationshipFriend, archetype, strictness)
			if !(partner < family && family < friend) {
				t.Fatalf("rate ordering broken for %s/%s: partner=%v family=%v friend=%v",
					archetype, strictness, partner, family, friend)
			}
		}
	}
}

func TestDecayRateFallbacks(t *testing.T) {
	if got := DecayRate("alien", "", ""); got != 3.0 {
		t.Fatalf("unknown type should use the friend rate, got %v", got)
	}
	if got := DecayRate(models.RelationshipFamily, "Weirdo", "chaotic"); got != 2.0 {
		t.Fatalf("unknown archetype/strictness should be neutral, got %v", got)
	}
}

func TestApplyDecaySubDayIsNoOp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	person := testPerson(models.RelationshipFriend, models.ArchetypeSage, 50, now.Add(-23*time.Hour))

	result := ApplyDecay(person, now, models.StrictnessNormal)
	if result.Applied {
		t.Fatalf("expected no-op under one day, got applied with score %v", result.Score)
	}
	if result.Score != 50 {
		t.Fatalf("no-op must leave score untouched, got %v", result.Score)
	}
}

func TestApplyDecayWholeDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		person     models.Person
		strictness string
		want       float64
		wantDays   int
	}{
		{
			name:       "friend sage normal two days",
			person:     testPerson(models.RelationshipFriend, models.ArchetypeSage, 50, now.Add(-48*time.Hour)),
			strictness: models.StrictnessNormal,
			want:       44,
			wantDays:   2,
		},
		{
			name:       "partner anchor gentle three days",
			person:     testPerson(models.RelationshipPartner, models.ArchetypeAnchor, 90, now.Add(-72*time.Hour)),
			strictness: models.StrictnessGentle,
			// 1.0 * 0.8 * 0.6 * 3 = 1.44, rounded to one decimal
			want:     88.6,
			wantDays: 3,
		},
		{
			name:       "comet strict burns fast",
			person:     testPerson(models.RelationshipFriend, models.ArchetypeComet, 80, now.Add(-5*24*time.Hour)),
			strictness: models.StrictnessStrict,
			// 3.0 * 1.4 * 1.5 * 5 = 31.5
			want:     48.5,
			wantDays: 5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ApplyDecay(tc.person, now, tc.strictness)
			if !result.Applied {
				t.Fatal("expected decay to apply")
			}
			if result.DaysElapsed != tc.wantDays {
				t.Fatalf("days elapsed = %d, want %d", result.DaysElapsed, tc.wantDays)
			}
			if result.Score != tc.want {
				t.Fatalf("score = %v, want %v", result.Score, tc.want)
			}
		})
	}
}

func TestApplyDecayClampsAtZero(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	person := testPerson(models.RelationshipFriend, models.ArchetypeComet, 5, now.Add(-30*24*time.Hour))

	result := ApplyDecay(person, now, models.StrictnessStrict)
	if result.Score != 0 {
		t.Fatalf("score should clamp at 0, got %v", result.Score)
	}
}

func TestApplyDecayNeverRaisesScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for days := 0; days <= 40; days += 4 {
		person := testPerson(models.RelationshipFamily, models.ArchetypeSpark, 73.4, now.Add(-time.Duration(days)*24*time.Hour))
		result := ApplyDecay(person, now, models.StrictnessNormal)
		if result.Score > person.GravityScore {
			t.Fatalf("decay raised score after %d days: %v -> %v", days, person.GravityScore, result.Score)
		}
	}
}

func TestApplyDecayBaselinePrefersFreshestTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	created := now.Add(-20 * 24 * time.Hour)
	lastDecay := now.Add(-36 * time.Hour)

	person := testPerson(models.RelationshipFriend, models.ArchetypeSage, 40, created)
	person.LastDecayApplied = &lastDecay

	result := ApplyDecay(person, now, models.StrictnessNormal)
	if result.DaysElapsed != 1 {
		t.Fatalf("baseline should be last decay, got %d elapsed days", result.DaysElapsed)
	}

	interaction := now.Add(-2 * time.Hour)
	person.LastInteraction = &interaction
	result = ApplyDecay(person, now, models.StrictnessNormal)
	if result.Applied {
		t.Fatal("recent interaction should reset the baseline and suppress decay")
	}
}

func TestApplyDecayIsIdempotentWithinADay(t *testing.T) {
	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	person := testPerson(models.RelationshipFriend, models.ArchetypeSage, 50, now.Add(-10*24*time.Hour))

	first := ApplyDecay(person, now, models.StrictnessNormal)
	if !first.Applied {
		t.Fatal("expected first sweep to decay")
	}

	// Persisting the sweep advances the baseline.
	person.GravityScore = first.Score
	person.LastDecayApplied = &now

	rerun := ApplyDecay(person, now.Add(2*time.Hour), models.StrictnessNormal)
	if rerun.Applied {
		t.Fatalf("same-day rerun must be a no-op, got score %v", rerun.Score)
	}
	if rerun.Score != first.Score {
		t.Fatalf("rerun changed score: %v -> %v", first.Score, rerun.Score)
	}
}

func TestApplyDecayPinnedIsIdentity(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	person := testPerson(models.RelationshipPartner, "", 10, now.Add(-90*24*time.Hour))
	person.Pinned = true

	result := ApplyDecay(person, now, models.StrictnessStrict)
	if result.Applied || result.Score != 10 {
		t.Fatalf("pinned person must not decay, got %+v", result)
	}
}

func TestApplyInteractionBoostsAndClamps(t *testing.T) {
	person := testPerson(models.RelationshipFriend, models.ArchetypeSage, 50, time.Now())
	if got := ApplyInteraction(person); got != 65 {
		t.Fatalf("boost = %v, want 65", got)
	}

	person.GravityScore = 92
	if got := ApplyInteraction(person); got != 100 {
		t.Fatalf("boost should clamp at 100, got %v", got)
	}

	person.GravityScore = 10
	person.Pinned = true
	if got := ApplyInteraction(person); got != 25 {
		t.Fatalf("pinned people accept boosts, got %v", got)
	}
}

func TestFriendUncontactedForTwentyDaysDriftsToOuterRim(t *testing.T) {
	now := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	person := testPerson(models.RelationshipFriend, models.ArchetypeAnchor, 50, now.Add(-20*24*time.Hour))

	result := ApplyDecay(person, now, models.StrictnessNormal)
	if !result.Applied {
		t.Fatal("expected decay to apply")
	}
	// 3.0 * 0.8 * 20 = 48
	if result.Score != 2 {
		t.Fatalf("score = %v, want 2", result.Score)
	}
	if Zone(result.Score) != ZoneOuter {
		t.Fatalf("zone = %s, want %s", Zone(result.Score), ZoneOuter)
	}
}
