package pipeline

import (
	"strings"

	"github.com/quantraven93/court-tracker-api/models"
)

// Detect compares a tracked case's last-known state against a freshly
// resolved snapshot and returns the change events the comparison produced,
// in a fixed order: status, hearing date, new order, judge. It is a pure
// function; the pipeline owns persistence and dispatch.
//
// A change fires only when the fresh value is non-empty: a field the
// upstream dropped this cycle is a parse gap, never a "became unknown"
// event. Comparison is exact string equality after trimming.
func Detect(prev models.TrackedCaseDetails, fresh models.CaseSnapshot) []models.ChangeEventDetails {
	var events []models.ChangeEventDetails
	emit := func(kind models.ChangeKind, field, oldVal, newVal string) {
		events = append(events, models.ChangeEventDetails{
			UserID:   prev.UserID,
			Kind:     kind,
			Field:    field,
			OldValue: oldVal,
			NewValue: newVal,
		})
	}

	oldStatus := strings.TrimSpace(prev.Status)
	newStatus := strings.TrimSpace(fresh.Status)
	if newStatus != "" && newStatus != oldStatus && oldStatus != models.StatusUnknown {
		emit(models.StatusChange, "status", oldStatus, newStatus)
	}

	oldHearing := strings.TrimSpace(prev.NextHearingDate)
	newHearing := strings.TrimSpace(fresh.NextHearingDate)
	if newHearing != "" && newHearing != oldHearing {
		emit(models.HearingDateChange, "nextHearingDate", oldHearing, newHearing)
	}

	oldOrder := strings.TrimSpace(prev.LastOrderDate)
	newOrder := strings.TrimSpace(fresh.LastOrderDate)
	if newOrder != "" && newOrder != oldOrder {
		val := newOrder
		if summary := strings.TrimSpace(fresh.LastOrderSummary); summary != "" {
			val = newOrder + ": " + summary
		}
		emit(models.NewOrder, "lastOrderDate", oldOrder, val)
	}

	oldJudge := strings.TrimSpace(prev.Judge)
	newJudge := strings.TrimSpace(fresh.Judge)
	if newJudge != "" && newJudge != oldJudge {
		emit(models.JudgeChange, "judge", oldJudge, newJudge)
	}

	return events
}
