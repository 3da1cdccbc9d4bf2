package services

import (
	"strings"
	"time"

	"github.com/friendorbit/orbit/internal/models"
)

type PersonRepository interface {
	FindByIDAndUser(personID uint, userID uint) (models.Person, bool, error)
	FindActivePartner(userID uint) (models.Person, bool, error)
	ListByUser(userID uint, includeArchived bool) ([]models.Person, error)
	Create(person *models.Person) error
	SaveInteraction(person *models.Person, score float64, at time.Time) error
}

type BatteryRepository interface {
	Create(entry *models.BatteryLog) error
}

type BatteryUserWriter interface {
	UpdateBattery(userID uint, score int, at time.Time) error
}

// OrbitService is the synchronous face of the engine: interaction
// logging, battery check-ins and person creation. It computes new values
// and hands them to the repositories; it never caches record state.
type OrbitService struct {
	people  PersonRepository
	battery BatteryRepository
	users   BatteryUserWriter
}

func NewOrbitService(people PersonRepository, battery BatteryRepository, users BatteryUserWriter) *OrbitService {
	return &OrbitService{
		people:  people,
		battery: battery,
		users:   users,
	}
}

type PersonInput struct {
	Name                string   `json:"name"`
	RelationshipType    string   `json:"relationship_type"`
	RelationshipSubtype string   `json:"relationship_subtype"`
	Archetype           string   `json:"archetype"`
	CadenceDays         int      `json:"cadence_days"`
	Tags                []string `json:"tags"`
	Pinned              bool     `json:"pinned"`
}

// CreatePerson validates and stores a new person. Only partners may omit
// the archetype; other types default to Anchor. Cadence defaults by
// relationship type, and a user holds at most one active partner.
func (service *OrbitService) CreatePerson(userID uint, input PersonInput, now time.Time) (models.Person, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Person{}, ErrNameRequired
	}
	if !models.IsValidRelationshipType(input.RelationshipType) {
		return models.Person{}, ErrInvalidRelationshipType
	}

	archetype := strings.TrimSpace(input.Archetype)
	if archetype == "" && input.RelationshipType != models.RelationshipPartner {
		archetype = models.ArchetypeAnchor
	}
	if archetype != "" && !models.IsValidArchetype(archetype) {
		return models.Person{}, ErrInvalidArchetype
	}

	cadence := input.CadenceDays
	if cadence < 0 {
		return models.Person{}, ErrInvalidCadence
	}
	if cadence == 0 {
		cadence = models.DefaultCadenceDays(input.RelationshipType)
	}

	if input.RelationshipType == models.RelationshipPartner {
		_, exists, err := service.people.FindActivePartner(userID)
		if err != nil {
			return models.Person{}, err
		}
		if exists {
			return models.Person{}, ErrPartnerExists
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	person := models.Person{
		UserID:              userID,
		Name:                name,
		RelationshipType:    input.RelationshipType,
		RelationshipSubtype: strings.TrimSpace(input.RelationshipSubtype),
		Archetype:           archetype,
		CadenceDays:         cadence,
		Tags:                tags,
		Pinned:              input.Pinned,
		GravityScore:        models.DefaultGravityScore,
		CreatedAt:           now,
	}
	if err := service.people.Create(&person); err != nil {
		return models.Person{}, err
	}
	return person, nil
}

// LogInteraction boosts a person's gravity and marks them contacted now.
func (service *OrbitService) LogInteraction(personID uint, userID uint, now time.Time) (models.Person, error) {
	person, found, err := service.people.FindByIDAndUser(personID, userID)
	if err != nil {
		return models.Person{}, err
	}
	if !found || person.Archived {
		return models.Person{}, ErrUnknownRelationship
	}

	score := ApplyInteraction(person)
	if err := service.people.SaveInteraction(&person, score, now); err != nil {
		return models.Person{}, err
	}
	return person, nil
}

type BatteryResult struct {
	Score       int          `json:"score"`
	LoggedAt    time.Time    `json:"logged_at"`
	Suggestions []Suggestion `json:"suggestions"`
}

// LogBattery records a battery check-in and returns suggestions sized to
// it. Out-of-range scores are rejected before anything is written.
func (service *OrbitService) LogBattery(user *models.User, score int, now time.Time) (BatteryResult, error) {
	if score < models.BatteryScoreMin || score > models.BatteryScoreMax {
		return BatteryResult{}, ErrInvalidScoreRange
	}

	entry := models.BatteryLog{UserID: user.ID, Score: score, CreatedAt: now}
	if err := service.battery.Create(&entry); err != nil {
		return BatteryResult{}, err
	}
	if err := service.users.UpdateBattery(user.ID, score, now); err != nil {
		return BatteryResult{}, err
	}

	people, err := service.people.ListByUser(user.ID, false)
	if err != nil {
		return BatteryResult{}, err
	}

	return BatteryResult{
		Score:       score,
		LoggedAt:    now,
		Suggestions: Suggest(people, score, now),
	}, nil
}

type BatteryStatus struct {
	Score       *int         `json:"score"`
	LoggedAt    *time.Time   `json:"logged_at"`
	NeedsUpdate bool         `json:"needs_update"`
	Suggestions []Suggestion `json:"suggestions"`
}

// CurrentBatteryStatus reports the latest check-in and whether a new one
// is due, judged against the user's local calendar day.
func (service *OrbitService) CurrentBatteryStatus(user *models.User, now time.Time) (BatteryStatus, error) {
	status := BatteryStatus{NeedsUpdate: true, Suggestions: []Suggestion{}}
	if user.LastBattery == nil {
		return status, nil
	}

	status.Score = user.LastBattery
	status.LoggedAt = user.LastBatteryAt
	if user.LastBatteryAt != nil && SameLocalDay(*user.LastBatteryAt, now, user.Location()) {
		status.NeedsUpdate = false
	}

	people, err := service.people.ListByUser(user.ID, false)
	if err != nil {
		return BatteryStatus{}, err
	}
	status.Suggestions = Suggest(people, *user.LastBattery, now)
	return status, nil
}
