package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TrackedCase holds the structure for the trackedcases collection in mongo
type TrackedCase struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details TrackedCaseDetails `json:"trackedCase" bson:"trackedCase"`
	Version int32              `json:"__v" bson:"__v"`
}

// TrackedCaseDetails holds the inner tracked case details: the identifier the
// user registered, the last-known snapshot fields flattened for change
// comparison, and tracking metadata
type TrackedCaseDetails struct {
	UserID string `json:"userID" bson:"userID"` // the user who tracks this case

	// Identifier
	Category     CourtCategory `json:"category" bson:"category"`
	CaseType     string        `json:"caseType" bson:"caseType"`
	CaseTypeCode string        `json:"caseTypeCode,omitempty" bson:"caseTypeCode,omitempty"`
	CaseNumber   string        `json:"caseNumber" bson:"caseNumber"`
	CaseYear     string        `json:"caseYear" bson:"caseYear"`
	CNR          string        `json:"cnr,omitempty" bson:"cnr,omitempty"`
	CourtCode    string        `json:"courtCode,omitempty" bson:"courtCode,omitempty"`
	StateCode    string        `json:"stateCode,omitempty" bson:"stateCode,omitempty"`
	DistrictCode string        `json:"districtCode,omitempty" bson:"districtCode,omitempty"`

	// Last-known snapshot fields, synced by the update pipeline
	Title              string         `json:"title" bson:"title"`
	Status             string         `json:"status" bson:"status"`
	Petitioner         string         `json:"petitioner,omitempty" bson:"petitioner,omitempty"`
	Respondent         string         `json:"respondent,omitempty" bson:"respondent,omitempty"`
	PetitionerAdvocate string         `json:"petitionerAdvocate,omitempty" bson:"petitionerAdvocate,omitempty"`
	RespondentAdvocate string         `json:"respondentAdvocate,omitempty" bson:"respondentAdvocate,omitempty"`
	Judge              string         `json:"judge,omitempty" bson:"judge,omitempty"`
	FilingDate         string         `json:"filingDate,omitempty" bson:"filingDate,omitempty"`
	RegistrationDate   string         `json:"registrationDate,omitempty" bson:"registrationDate,omitempty"`
	DecisionDate       string         `json:"decisionDate,omitempty" bson:"decisionDate,omitempty"`
	NextHearingDate    string         `json:"nextHearingDate,omitempty" bson:"nextHearingDate,omitempty"`
	LastOrderDate      string         `json:"lastOrderDate,omitempty" bson:"lastOrderDate,omitempty"`
	LastOrderSummary   string         `json:"lastOrderSummary,omitempty" bson:"lastOrderSummary,omitempty"`
	HearingHistory     []HearingEntry `json:"hearingHistory,omitempty" bson:"hearingHistory,omitempty"`
	Orders             []OrderEntry   `json:"orders,omitempty" bson:"orders,omitempty"`
	ActsCited          []string       `json:"actsCited,omitempty" bson:"actsCited,omitempty"`

	// Tracking metadata, user-mutable except for the timestamps
	Active             bool               `json:"active" bson:"active"`
	Tags               []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Notes              string             `json:"notes,omitempty" bson:"notes,omitempty"`
	LastCheckedAt      primitive.DateTime `json:"lastCheckedAt,omitempty" bson:"lastCheckedAt,omitempty"`
	LastChangedAt      primitive.DateTime `json:"lastChangedAt,omitempty" bson:"lastChangedAt,omitempty"`
	LastReminderSentAt primitive.DateTime `json:"lastReminderSentAt,omitempty" bson:"lastReminderSentAt,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Identifier rebuilds the CaseIdentifier from the flattened details
func (d TrackedCaseDetails) Identifier() CaseIdentifier {
	return CaseIdentifier{
		Category:     d.Category,
		CaseType:     d.CaseType,
		CaseTypeCode: d.CaseTypeCode,
		CaseNumber:   d.CaseNumber,
		CaseYear:     d.CaseYear,
		CNR:          d.CNR,
		CourtCode:    d.CourtCode,
		StateCode:    d.StateCode,
		DistrictCode: d.DistrictCode,
	}
}

// ApplySnapshot copies the comparable snapshot fields onto the tracked case
// details. Fields the upstream omitted this cycle keep their previous value,
// so a flaky parse never erases known data.
func (d *TrackedCaseDetails) ApplySnapshot(s CaseSnapshot) {
	if s.Title != "" {
		d.Title = s.Title
	}
	if s.Status != "" {
		d.Status = s.Status
	}
	if s.Petitioner != "" {
		d.Petitioner = s.Petitioner
	}
	if s.Respondent != "" {
		d.Respondent = s.Respondent
	}
	if s.PetitionerAdvocate != "" {
		d.PetitionerAdvocate = s.PetitionerAdvocate
	}
	if s.RespondentAdvocate != "" {
		d.RespondentAdvocate = s.RespondentAdvocate
	}
	if s.Judge != "" {
		d.Judge = s.Judge
	}
	if s.FilingDate != "" {
		d.FilingDate = s.FilingDate
	}
	if s.RegistrationDate != "" {
		d.RegistrationDate = s.RegistrationDate
	}
	if s.DecisionDate != "" {
		d.DecisionDate = s.DecisionDate
	}
	if s.NextHearingDate != "" {
		d.NextHearingDate = s.NextHearingDate
	}
	if s.LastOrderDate != "" {
		d.LastOrderDate = s.LastOrderDate
	}
	if s.LastOrderSummary != "" {
		d.LastOrderSummary = s.LastOrderSummary
	}
	if len(s.HearingHistory) > 0 {
		d.HearingHistory = s.HearingHistory
	}
	if len(s.Orders) > 0 {
		d.Orders = s.Orders
	}
	if len(s.ActsCited) > 0 {
		d.ActsCited = s.ActsCited
	}
}
