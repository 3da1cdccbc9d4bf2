package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/friendorbit/orbit/internal/db"
	"github.com/friendorbit/orbit/internal/logger"
	"github.com/friendorbit/orbit/internal/models"
)

type sentMessage struct {
	chatID  string
	message string
}

type captureDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (dispatcher *captureDispatcher) Send(ctx context.Context, chatID string, message string) error {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.sent = append(dispatcher.sent, sentMessage{chatID: chatID, message: message})
	return nil
}

func newSweeperFixture(t *testing.T) (*Sweeper, *db.Repositories, *captureDispatcher) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "orbit_test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	repositories := db.NewRepositories(database)
	dispatcher := &captureDispatcher{}
	sweeper := NewSweeper(repositories.Users, repositories.People, dispatcher, logger.NewNop(), time.UTC, SweeperConfig{
		PromptHour:    10,
		DigestWeekday: time.Sunday,
		DigestHour:    19,
		Workers:       2,
	})
	return sweeper, repositories, dispatcher
}

func seedUser(t *testing.T, repositories *db.Repositories, telegramID string, strictness string) models.User {
	t.Helper()
	user := models.User{
		TelegramID:      telegramID,
		DisplayName:     "Test",
		Timezone:        "UTC",
		InnerCircleSize: models.DefaultInnerCircleSize,
		DriftStrictness: strictness,
		Onboarded:       true,
	}
	if err := repositories.Users.Create(&user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedPerson(t *testing.T, repositories *db.Repositories, userID uint, name string, score float64, createdAt time.Time) models.Person {
	t.Helper()
	person := models.Person{
		UserID:           userID,
		Name:             name,
		RelationshipType: models.RelationshipFriend,
		Archetype:        models.ArchetypeSage,
		CadenceDays:      7,
		Tags:             []string{},
		GravityScore:     score,
		CreatedAt:        createdAt,
	}
	if err := repositories.People.Create(&person); err != nil {
		t.Fatalf("seed person: %v", err)
	}
	return person
}

func TestRunDecaySweepAppliesDecay(t *testing.T) {
	sweeper, repositories, _ := newSweeperFixture(t)
	now := time.Date(2025, 6, 11, 3, 0, 0, 0, time.UTC)

	user := seedUser(t, repositories, "100", models.StrictnessNormal)
	stale := seedPerson(t, repositories, user.ID, "Stale", 50, now.Add(-10*24*time.Hour))

	pinned := seedPerson(t, repositories, user.ID, "Pinned", 40, now.Add(-10*24*time.Hour))
	if err := repositories.People.UpdateByIDAndUser(pinned.ID, user.ID, map[string]any{"pinned": true}); err != nil {
		t.Fatalf("pin: %v", err)
	}

	archived := seedPerson(t, repositories, user.ID, "Archived", 40, now.Add(-10*24*time.Hour))
	if err := repositories.People.Archive(archived.ID, user.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	report, err := sweeper.RunDecaySweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Decayed != 1 {
		t.Fatalf("decayed = %d, want 1 (report %+v)", report.Decayed, report)
	}

	reloaded, _, err := repositories.People.FindByIDAndUser(stale.ID, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	// 3.0 points per day for 10 days.
	if reloaded.GravityScore != 20 {
		t.Fatalf("score = %v, want 20", reloaded.GravityScore)
	}
	if reloaded.LastDecayApplied == nil {
		t.Fatal("last decay timestamp not recorded")
	}

	untouchedPinned, _, _ := repositories.People.FindByIDAndUser(pinned.ID, user.ID)
	if untouchedPinned.GravityScore != 40 || untouchedPinned.LastDecayApplied != nil {
		t.Fatalf("pinned person was touched: %+v", untouchedPinned)
	}
	untouchedArchived, _, _ := repositories.People.FindByIDAndUser(archived.ID, user.ID)
	if untouchedArchived.GravityScore != 40 {
		t.Fatalf("archived person was touched: %+v", untouchedArchived)
	}
}

func TestRunDecaySweepHonorsUserStrictness(t *testing.T) {
	sweeper, repositories, _ := newSweeperFixture(t)
	now := time.Date(2025, 6, 11, 3, 0, 0, 0, time.UTC)

	gentle := seedUser(t, repositories, "200", models.StrictnessGentle)
	strict := seedUser(t, repositories, "201", models.StrictnessStrict)
	gentlePerson := seedPerson(t, repositories, gentle.ID, "G", 60, now.Add(-5*24*time.Hour))
	strictPerson := seedPerson(t, repositories, strict.ID, "S", 60, now.Add(-5*24*time.Hour))

	if _, err := sweeper.RunDecaySweep(context.Background(), now); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	reloadedGentle, _, _ := repositories.People.FindByIDAndUser(gentlePerson.ID, gentle.ID)
	reloadedStrict, _, _ := repositories.People.FindByIDAndUser(strictPerson.ID, strict.ID)
	// 3.0 * 0.6 * 5 = 9 versus 3.0 * 1.5 * 5 = 22.5.
	if reloadedGentle.GravityScore != 51 {
		t.Fatalf("gentle score = %v, want 51", reloadedGentle.GravityScore)
	}
	if reloadedStrict.GravityScore != 37.5 {
		t.Fatalf("strict score = %v, want 37.5", reloadedStrict.GravityScore)
	}
}

func TestRunDecaySweepIsReentrant(t *testing.T) {
	sweeper, repositories, _ := newSweeperFixture(t)
	now := time.Date(2025, 6, 11, 3, 0, 0, 0, time.UTC)

	user := seedUser(t, repositories, "300", models.StrictnessNormal)
	person := seedPerson(t, repositories, user.ID, "P", 50, now.Add(-4*24*time.Hour))

	first, err := sweeper.RunDecaySweep(context.Background(), now)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.Decayed != 1 {
		t.Fatalf("first sweep decayed = %d, want 1", first.Decayed)
	}

	afterFirst, _, _ := repositories.People.FindByIDAndUser(person.ID, user.ID)

	second, err := sweeper.RunDecaySweep(context.Background(), now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Decayed != 0 || second.Unchanged != 1 {
		t.Fatalf("same-day rerun should be a no-op, got %+v", second)
	}

	afterSecond, _, _ := repositories.People.FindByIDAndUser(person.ID, user.ID)
	if afterSecond.GravityScore != afterFirst.GravityScore {
		t.Fatalf("rerun changed score: %v -> %v", afterFirst.GravityScore, afterSecond.GravityScore)
	}
}

func TestRunDriftDigestReportsCrossingsOnce(t *testing.T) {
	sweeper, repositories, dispatcher := newSweeperFixture(t)
	now := time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC)

	user := seedUser(t, repositories, "400", models.StrictnessNormal)
	drifting := seedPerson(t, repositories, user.ID, "Mira", 12, now.Add(-60*24*time.Hour))
	seedPerson(t, repositories, user.ID, "Close", 80, now.Add(-60*24*time.Hour))

	newlyOuter, err := sweeper.RunDriftDigest(context.Background(), now)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(newlyOuter[user.ID]) != 1 || newlyOuter[user.ID][0].ID != drifting.ID {
		t.Fatalf("expected Mira to cross, got %+v", newlyOuter)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected one digest message, got %d", len(dispatcher.sent))
	}
	if dispatcher.sent[0].chatID != "400" || !strings.Contains(dispatcher.sent[0].message, "Mira") {
		t.Fatalf("unexpected digest %+v", dispatcher.sent[0])
	}

	// Still outer next week: the watermark suppresses a repeat.
	again, err := sweeper.RunDriftDigest(context.Background(), now.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("second digest: %v", err)
	}
	if len(again) != 0 || len(dispatcher.sent) != 1 {
		t.Fatalf("repeat crossing reported: %+v, %d messages", again, len(dispatcher.sent))
	}
}

func TestRunBatteryPromptsSkipsTodaysLoggers(t *testing.T) {
	sweeper, repositories, dispatcher := newSweeperFixture(t)
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	stale := seedUser(t, repositories, "500", models.StrictnessNormal)
	if err := repositories.Users.UpdateBattery(stale.ID, 40, now.Add(-26*time.Hour)); err != nil {
		t.Fatalf("seed battery: %v", err)
	}

	fresh := seedUser(t, repositories, "501", models.StrictnessNormal)
	if err := repositories.Users.UpdateBattery(fresh.ID, 70, now.Add(-time.Hour)); err != nil {
		t.Fatalf("seed battery: %v", err)
	}

	if err := sweeper.RunBatteryPrompts(context.Background(), now); err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].chatID != "500" {
		t.Fatalf("expected one prompt to the stale user, got %+v", dispatcher.sent)
	}
}
