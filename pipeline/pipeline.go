package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/quantraven93/court-tracker-api/courts"
	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/models"
	"github.com/quantraven93/court-tracker-api/notify"
)

// Resolver is the slice of the resolution service the pipeline needs
type Resolver interface {
	ResolveStatus(ctx context.Context, id models.CaseIdentifier) (*courts.Resolution, error)
}

// RunResult summarizes one pipeline run for logging and the trigger endpoint
type RunResult struct {
	CasesChecked  int `json:"casesChecked"`
	CasesChanged  int `json:"casesChanged"`
	EventsEmitted int `json:"eventsEmitted"`
	SoftFailures  int `json:"softFailures"`
	RemindersSent int `json:"remindersSent"`
	Skipped       int `json:"skipped"`
}

// Pipeline drives one batch update over all active tracked cases, oldest
// checked first. Requests to the portals are paced by Interval, and the
// whole batch stops once Budget of wall clock is spent, keeping the work
// already done. A case that cannot be resolved this cycle is a soft
// failure: its last-checked timestamp still advances so it goes to the back
// of the queue.
type Pipeline struct {
	CaseDB     databases.TrackedCaseDatabase
	EventDB    databases.ChangeEventDatabase
	Resolver   Resolver
	Dispatcher notify.Dispatcher

	// Budget bounds the wall clock of one run; Interval paces the gap
	// between consecutive case lookups
	Budget   time.Duration
	Interval time.Duration

	now func() time.Time
}

// New creates a pipeline with the standard pacing: one case per second,
// 55 seconds of a nominal one-minute budget
func New(caseDB databases.TrackedCaseDatabase, eventDB databases.ChangeEventDatabase, resolver Resolver, dispatcher notify.Dispatcher) *Pipeline {
	return &Pipeline{
		CaseDB:     caseDB,
		EventDB:    eventDB,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Budget:     55 * time.Second,
		Interval:   time.Second,
		now:        time.Now,
	}
}

func (p *Pipeline) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// Run executes one batch. The only fatal error is failing to load the
// batch itself; everything per-case is isolated, counted, and logged.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	var result RunResult
	started := p.clock()
	deadline := started.Add(p.Budget)

	cases, err := p.CaseDB.Find(ctx,
		bson.M{"trackedCase.active": true},
		options.Find().SetSort(bson.M{"trackedCase.lastCheckedAt": 1}),
	)
	if err != nil {
		return result, err
	}

	limiter := rate.NewLimiter(rate.Every(p.Interval), 1)
	for i, trackedCase := range cases {
		if ctx.Err() != nil {
			result.Skipped = len(cases) - i
			break
		}
		if p.clock().After(deadline) {
			result.Skipped = len(cases) - i
			zap.S().Infow("update budget spent, stopping batch",
				"processed", i, "skipped", result.Skipped)
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			result.Skipped = len(cases) - i
			break
		}
		p.processCase(ctx, trackedCase, &result)
	}

	p.reminderSweep(ctx, cases, &result)

	zap.S().Infow("update run finished",
		"elapsed", p.clock().Sub(started).String(),
		"checked", result.CasesChecked,
		"changed", result.CasesChanged,
		"events", result.EventsEmitted,
		"softFailures", result.SoftFailures,
		"reminders", result.RemindersSent,
		"skipped", result.Skipped,
	)
	return result, nil
}

// processCase resolves one case, diffs it, and persists the outcome
func (p *Pipeline) processCase(ctx context.Context, trackedCase models.TrackedCase, result *RunResult) {
	result.CasesChecked++
	now := primitive.NewDateTimeFromTime(p.clock())

	resolution, err := p.Resolver.ResolveStatus(ctx, trackedCase.Details.Identifier())
	if err != nil || resolution == nil {
		if err != nil {
			zap.S().Warnw("case resolution failed",
				"caseID", trackedCase.ID.Hex(), "error", err)
		}
		result.SoftFailures++
		// advance the checked timestamp so the case is not retried at the
		// head of the very next batch
		p.updateCase(ctx, trackedCase.ID, bson.M{
			"trackedCase.lastCheckedAt": now,
			"trackedCase.updatedAt":     now,
		})
		return
	}

	events := Detect(trackedCase.Details, *resolution.Snapshot)
	for _, details := range events {
		details.CaseID = trackedCase.ID.Hex()
		details.CreatedAt = now
		event := models.ChangeEvent{
			ID:      primitive.NewObjectID(),
			Details: details,
			Version: 1,
		}
		if _, err := p.EventDB.InsertOne(ctx, event); err != nil {
			zap.S().Errorw("failed to persist change event",
				"caseID", details.CaseID, "kind", details.Kind, "error", err)
			continue
		}
		result.EventsEmitted++
		if p.Dispatcher != nil {
			p.Dispatcher.Dispatch(ctx, event, trackedCase)
		}
	}

	trackedCase.Details.ApplySnapshot(*resolution.Snapshot)
	trackedCase.Details.LastCheckedAt = now
	trackedCase.Details.UpdatedAt = now
	if len(events) > 0 {
		trackedCase.Details.LastChangedAt = now
		result.CasesChanged++
	}
	p.updateCase(ctx, trackedCase.ID, bson.M{"trackedCase": trackedCase.Details})
}

// reminderSweep emits a hearing_reminder for every active case listed
// within the next 24 hours, at most once per calendar day per case
func (p *Pipeline) reminderSweep(ctx context.Context, cases []models.TrackedCase, result *RunResult) {
	now := p.clock()
	for _, trackedCase := range cases {
		if ctx.Err() != nil {
			return
		}
		hearing, ok := parseHearingDate(trackedCase.Details.NextHearingDate)
		if !ok {
			continue
		}
		until := hearing.Sub(now)
		if until < 0 || until > 24*time.Hour {
			continue
		}
		if sameDay(trackedCase.Details.LastReminderSentAt.Time(), now) {
			continue
		}

		stamp := primitive.NewDateTimeFromTime(now)
		event := models.ChangeEvent{
			ID: primitive.NewObjectID(),
			Details: models.ChangeEventDetails{
				CaseID:    trackedCase.ID.Hex(),
				UserID:    trackedCase.Details.UserID,
				Kind:      models.HearingReminder,
				Field:     "nextHearingDate",
				NewValue:  trackedCase.Details.NextHearingDate,
				CreatedAt: stamp,
			},
			Version: 1,
		}
		if _, err := p.EventDB.InsertOne(ctx, event); err != nil {
			zap.S().Errorw("failed to persist hearing reminder",
				"caseID", trackedCase.ID.Hex(), "error", err)
			continue
		}
		result.RemindersSent++
		if p.Dispatcher != nil {
			p.Dispatcher.Dispatch(ctx, event, trackedCase)
		}
		p.updateCase(ctx, trackedCase.ID, bson.M{
			"trackedCase.lastReminderSentAt": stamp,
		})
	}
}

func (p *Pipeline) updateCase(ctx context.Context, id primitive.ObjectID, set bson.M) {
	err := p.CaseDB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		zap.S().Errorw("failed to update tracked case", "caseID", id.Hex(), "error", err)
	}
}

// hearingDateLayouts covers the date spellings seen across the portals
var hearingDateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02-Jan-2006",
	"2 January 2006",
}

// ordinalRe strips the st/nd/rd/th suffixes some listing pages use
var ordinalRe = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)

func parseHearingDate(value string) (time.Time, bool) {
	value = ordinalRe.ReplaceAllString(strings.TrimSpace(value), "$1")
	for _, layout := range hearingDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
