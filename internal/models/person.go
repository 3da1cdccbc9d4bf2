package models

import "time"

const (
	RelationshipPartner = "partner"
	RelationshipFamily  = "family"
	RelationshipFriend  = "friend"
)

const (
	ArchetypeAnchor = "Anchor"
	ArchetypeSpark  = "Spark"
	ArchetypeSage   = "Sage"
	ArchetypeComet  = "Comet"
)

const (
	GravityScoreMin     = 0.0
	GravityScoreMax     = 100.0
	DefaultGravityScore = 50.0
)

// Person is one tracked relationship, a "planet" in the user's orbit.
// GravityScore stays within [GravityScoreMin, GravityScoreMax]; every
// engine write clamps. Archived people keep their score but are excluded
// from scoring, suggestions, digests and stats.
type Person struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	UserID              uint       `gorm:"not null;index" json:"user_id"`
	Name                string     `gorm:"not null" json:"name"`
	RelationshipType    string     `gorm:"not null" json:"relationship_type"`
	RelationshipSubtype string     `json:"relationship_subtype,omitempty"`
	Archetype           string     `json:"archetype,omitempty"`
	CadenceDays         int        `gorm:"not null;default:7" json:"cadence_days"`
	Tags                []string   `gorm:"serializer:json" json:"tags"`
	Pinned              bool       `gorm:"not null;default:false" json:"pinned"`
	Archived            bool       `gorm:"not null;default:false;index" json:"archived"`
	GravityScore        float64    `gorm:"not null;default:50" json:"gravity_score"`
	LastInteraction     *time.Time `json:"last_interaction"`
	LastDecayApplied    *time.Time `json:"last_decay_applied"`
	DigestZone          string     `json:"-"`
	Version             uint       `gorm:"not null;default:0" json:"-"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `json:"-"`
}

func IsValidRelationshipType(value string) bool {
	switch value {
	case RelationshipPartner, RelationshipFamily, RelationshipFriend:
		return true
	default:
		return false
	}
}

func IsValidArchetype(value string) bool {
	switch value {
	case ArchetypeAnchor, ArchetypeSpark, ArchetypeSage, ArchetypeComet:
		return true
	default:
		return false
	}
}

// DefaultCadenceDays is the expected contact interval for a freshly
// created relationship of the given type.
func DefaultCadenceDays(relationshipType string) int {
	switch relationshipType {
	case RelationshipPartner:
		return 1
	case RelationshipFamily:
		return 7
	default:
		return 14
	}
}
