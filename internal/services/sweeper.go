package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/friendorbit/orbit/internal/logger"
	"github.com/friendorbit/orbit/internal/models"
	"github.com/friendorbit/orbit/internal/notify"
	"github.com/google/uuid"
)

type SweepUserSource interface {
	ListAll() ([]models.User, error)
}

type SweepPersonStore interface {
	ListActiveByUser(userID uint) ([]models.Person, error)
	FindFresh(personID uint) (models.Person, bool, error)
	SaveDecayedScore(person *models.Person, score float64, decayedAt time.Time) error
	SaveDigestZone(personID uint, zone string) error
}

type SweeperConfig struct {
	PromptHour    int
	DigestWeekday time.Weekday
	DigestHour    int
	Workers       int
	WebAppURL     string
}

// Sweeper drives the recurring jobs: the daily decay sweep, the daily
// battery prompt and the weekly drift digest. It only computes and
// persists through the stores; message delivery goes through the
// dispatcher and is never awaited.
type Sweeper struct {
	users      SweepUserSource
	people     SweepPersonStore
	dispatcher notify.Dispatcher
	log        *logger.Logger
	location   *time.Location
	cfg        SweeperConfig

	mu            sync.Mutex
	completedJobs map[string]time.Time
}

func NewSweeper(users SweepUserSource, people SweepPersonStore, dispatcher notify.Dispatcher, log *logger.Logger, location *time.Location, cfg SweeperConfig) *Sweeper {
	if location == nil {
		location = time.UTC
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if dispatcher == nil {
		dispatcher = notify.NoopDispatcher{}
	}
	return &Sweeper{
		users:         users,
		people:        people,
		dispatcher:    dispatcher,
		log:           log,
		location:      location,
		cfg:           cfg,
		completedJobs: make(map[string]time.Time),
	}
}

// Start launches the hourly scheduling loop. Each tick checks which jobs
// are due and runs each at most once per period; job idempotence makes a
// missed dedup harmless.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	go func() {
		defer ticker.Stop()

		s.tick(ctx, time.Now().In(s.location))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, time.Now().In(s.location))
			}
		}
	}()
}

func (s *Sweeper) tick(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")

	if s.claimJob("decay:" + day) {
		if report, err := s.RunDecaySweep(ctx, now); err != nil {
			s.log.Error("decay sweep failed", "error", err)
		} else {
			s.log.Info("decay sweep done",
				"run_id", report.RunID,
				"users", report.Users,
				"scanned", report.Scanned,
				"decayed", report.Decayed,
				"failed", report.Failed,
			)
		}
	}

	if now.Hour() >= s.cfg.PromptHour && s.claimJob("prompt:"+day) {
		if err := s.RunBatteryPrompts(ctx, now); err != nil {
			s.log.Error("battery prompts failed", "error", err)
		}
	}

	if now.Weekday() == s.cfg.DigestWeekday && now.Hour() >= s.cfg.DigestHour {
		year, week := now.ISOWeek()
		if s.claimJob(fmt.Sprintf("digest:%d-%02d", year, week)) {
			if _, err := s.RunDriftDigest(ctx, now); err != nil {
				s.log.Error("drift digest failed", "error", err)
			}
		}
	}
}

func (s *Sweeper) claimJob(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.completedJobs[key]; done {
		return false
	}
	s.completedJobs[key] = time.Now()
	if len(s.completedJobs) > 500 {
		keep := map[string]time.Time{key: s.completedJobs[key]}
		s.completedJobs = keep
	}
	return true
}

type SweepReport struct {
	RunID     string
	Users     int
	Scanned   int
	Decayed   int
	Unchanged int
	Failed    int
}

// RunDecaySweep applies decay to every active, non-pinned person of
// every user. Users fan out over a small worker pool; one person's
// records are handled sequentially. A failing record is retried once,
// then logged and skipped, never aborting the rest of the sweep. The
// sweep is re-entrant: same-day reruns are no-ops per record.
func (s *Sweeper) RunDecaySweep(ctx context.Context, now time.Time) (SweepReport, error) {
	report := SweepReport{RunID: uuid.NewString()}

	users, err := s.users.ListAll()
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}
	report.Users = len(users)

	jobs := make(chan models.User)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for user := range jobs {
				scanned, decayed, unchanged, failed := s.sweepUser(ctx, user, now)
				mu.Lock()
				report.Scanned += scanned
				report.Decayed += decayed
				report.Unchanged += unchanged
				report.Failed += failed
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, user := range users {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- user:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Sweeper) sweepUser(ctx context.Context, user models.User, now time.Time) (scanned, decayed, unchanged, failed int) {
	strictness := user.DriftStrictness
	if !models.IsValidStrictness(strictness) {
		strictness = models.StrictnessNormal
	}

	people, err := s.people.ListActiveByUser(user.ID)
	if err != nil {
		s.log.Error("sweep: list people failed", "user_id", user.ID, "error", err)
		return 0, 0, 0, 1
	}

	for _, person := range people {
		if ctx.Err() != nil {
			return
		}
		if person.Pinned {
			continue
		}
		scanned++

		if err := s.decayOne(person.ID, now, strictness, &decayed, &unchanged); err != nil {
			// One retry against a fresh read covers both transient write
			// errors and lost optimistic-lock races.
			if err := s.decayOne(person.ID, now, strictness, &decayed, &unchanged); err != nil {
				s.log.Error("sweep: decay failed", "person_id", person.ID, "user_id", user.ID, "error", err)
				failed++
			}
		}
	}
	return
}

func (s *Sweeper) decayOne(personID uint, now time.Time, strictness string, decayed, unchanged *int) error {
	fresh, found, err := s.people.FindFresh(personID)
	if err != nil {
		return err
	}
	if !found || fresh.Archived || fresh.Pinned {
		*unchanged++
		return nil
	}

	result := ApplyDecay(fresh, now, strictness)
	if !result.Applied {
		*unchanged++
		return nil
	}

	if err := s.people.SaveDecayedScore(&fresh, result.Score, now); err != nil {
		return err
	}
	*decayed++
	return nil
}

// RunDriftDigest finds, per user, people who crossed into the outer zone
// since the last digest, sends one summary message and advances the zone
// watermarks. A person already reported outer is not reported again
// until they climb out and fall back.
func (s *Sweeper) RunDriftDigest(ctx context.Context, now time.Time) (map[uint][]models.Person, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	newlyOuter := make(map[uint][]models.Person)
	for _, user := range users {
		if ctx.Err() != nil {
			return newlyOuter, ctx.Err()
		}

		people, err := s.people.ListActiveByUser(user.ID)
		if err != nil {
			s.log.Error("digest: list people failed", "user_id", user.ID, "error", err)
			continue
		}

		crossed := make([]models.Person, 0)
		for _, person := range people {
			zone := Zone(person.GravityScore)
			if zone == ZoneOuter && zoneRank(person.DigestZone) != zoneRank(ZoneOuter) {
				crossed = append(crossed, person)
			}
			if zone != person.DigestZone {
				if err := s.people.SaveDigestZone(person.ID, zone); err != nil {
					s.log.Error("digest: save watermark failed", "person_id", person.ID, "error", err)
				}
			}
		}

		if len(crossed) == 0 {
			continue
		}
		newlyOuter[user.ID] = crossed

		if user.TelegramID == "" || !user.Onboarded {
			continue
		}
		if err := s.dispatcher.Send(ctx, user.TelegramID, driftDigestMessage(crossed)); err != nil {
			s.log.Error("digest: send failed", "user_id", user.ID, "error", err)
		}
	}

	return newlyOuter, nil
}

func driftDigestMessage(crossed []models.Person) string {
	names := make([]string, 0, len(crossed))
	for _, person := range crossed {
		if len(names) == 5 {
			break
		}
		names = append(names, person.Name)
	}

	noun := "people are"
	if len(crossed) == 1 {
		noun = "person is"
	}
	return fmt.Sprintf(
		"Weekly Drift Report: %d %s drifting away: %s. A quick message could pull them back into orbit.",
		len(crossed), noun, strings.Join(names, ", "),
	)
}

// RunBatteryPrompts nudges every onboarded user who hasn't logged a
// battery score today, judged in their own timezone.
func (s *Sweeper) RunBatteryPrompts(ctx context.Context, now time.Time) error {
	users, err := s.users.ListAll()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !user.Onboarded || user.TelegramID == "" {
			continue
		}
		if user.LastBatteryAt != nil && SameLocalDay(*user.LastBatteryAt, now, user.Location()) {
			continue
		}

		message := "Good morning! How's your social battery today? Log it to see who you should connect with."
		if s.cfg.WebAppURL != "" {
			message += "\n" + s.cfg.WebAppURL
		}
		if err := s.dispatcher.Send(ctx, user.TelegramID, message); err != nil {
			s.log.Error("prompt: send failed", "user_id", user.ID, "error", err)
		}
	}
	return nil
}
