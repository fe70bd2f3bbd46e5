package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChangeKind classifies a detected change
type ChangeKind string

// Change kinds emitted by the detector and the reminder sweep
const (
	StatusChange      ChangeKind = "status_change"
	HearingDateChange ChangeKind = "hearing_date_change"
	NewOrder          ChangeKind = "new_order"
	JudgeChange       ChangeKind = "judge_change"
	NewCase           ChangeKind = "new_case"
	HearingReminder   ChangeKind = "hearing_reminder"
)

// ChangeEvent holds the structure for the changeevents collection in mongo.
// Events are produced fresh each pipeline run and never mutated: they form
// the audit trail behind every notification.
type ChangeEvent struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ChangeEventDetails `json:"changeEvent" bson:"changeEvent"`
	Version int32              `json:"__v" bson:"__v"`
}

// ChangeEventDetails holds the inner change event details
type ChangeEventDetails struct {
	CaseID   string     `json:"caseID" bson:"caseID"`
	UserID   string     `json:"userID" bson:"userID"`
	Kind     ChangeKind `json:"kind" bson:"kind"`
	Field    string     `json:"field" bson:"field"`
	OldValue string     `json:"oldValue,omitempty" bson:"oldValue,omitempty"`
	NewValue string     `json:"newValue" bson:"newValue"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
