package services

import "errors"

var (
	// ErrInvalidScoreRange rejects user-submitted battery scores outside
	// [0,100]. User input is refused, never silently clamped.
	ErrInvalidScoreRange = errors.New("battery score out of range")

	// ErrUnknownRelationship covers missing, archived or foreign people.
	ErrUnknownRelationship = errors.New("unknown relationship")

	ErrNameRequired            = errors.New("name required")
	ErrPartnerExists           = errors.New("active partner already exists")
	ErrInvalidRelationshipType = errors.New("invalid relationship type")
	ErrInvalidArchetype        = errors.New("invalid archetype")
	ErrArchetypeRequired       = errors.New("archetype required")
	ErrInvalidCadence          = errors.New("cadence must be positive")
)
