package models

import "strings"

// CourtCategory identifies which tier of the court system a case belongs to.
// It determines which provider and which upstream endpoint applies.
type CourtCategory string

// Court categories recognized by the resolution service
const (
	SupremeCourt  CourtCategory = "supreme_court"
	HighCourt     CourtCategory = "high_court"
	DistrictCourt CourtCategory = "district_court"
	Tribunal      CourtCategory = "tribunal"
	ConsumerForum CourtCategory = "consumer_forum"
)

// CaseIdentifier is the addressable key a caller supplies to resolve a case.
// Either (CaseType + CaseNumber + CaseYear) or the CNR must be present; CNR
// lookup takes priority when available because it is unambiguous and needs
// no routing codes.
type CaseIdentifier struct {
	Category     CourtCategory `json:"category" bson:"category"`
	CaseType     string        `json:"caseType" bson:"caseType"`
	CaseTypeCode string        `json:"caseTypeCode,omitempty" bson:"caseTypeCode,omitempty"`
	CaseNumber   string        `json:"caseNumber" bson:"caseNumber"`
	CaseYear     string        `json:"caseYear" bson:"caseYear"`
	CNR          string        `json:"cnr,omitempty" bson:"cnr,omitempty"`
	CourtCode    string        `json:"courtCode,omitempty" bson:"courtCode,omitempty"`
	StateCode    string        `json:"stateCode,omitempty" bson:"stateCode,omitempty"`
	DistrictCode string        `json:"districtCode,omitempty" bson:"districtCode,omitempty"`
}

// Valid reports whether the identifier carries enough information to attempt
// a lookup
func (c CaseIdentifier) Valid() bool {
	if strings.TrimSpace(c.CNR) != "" {
		return true
	}
	return strings.TrimSpace(c.CaseType) != "" &&
		strings.TrimSpace(c.CaseNumber) != "" &&
		strings.TrimSpace(c.CaseYear) != ""
}

// HearingEntry is one row of a case's hearing history
type HearingEntry struct {
	Date      string `json:"date" bson:"date"`
	Purpose   string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Courtroom string `json:"courtroom,omitempty" bson:"courtroom,omitempty"`
	Judge     string `json:"judge,omitempty" bson:"judge,omitempty"`
}

// OrderEntry is one court order or judgment attached to a case
type OrderEntry struct {
	Date         string `json:"date" bson:"date"`
	Type         string `json:"type,omitempty" bson:"type,omitempty"`
	Summary      string `json:"summary,omitempty" bson:"summary,omitempty"`
	DocumentLink string `json:"documentLink,omitempty" bson:"documentLink,omitempty"`
}

// StatusUnknown is the baseline status of a case nobody has resolved yet.
// The change detector never reports a transition away from it: the first
// real status a case gains is a baseline, not a change.
const StatusUnknown = "Unknown"

// CaseSnapshot is the canonical normalized result of a successful resolution.
// Absent data is an empty field, never a magic string. Status is the one
// exception: it defaults to "Pending" when the upstream gives nothing, which
// is the documented convention of the court portals.
type CaseSnapshot struct {
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

	// Raw keeps the unparsed upstream response for audit and debugging.
	// Nothing downstream interprets it.
	Raw string `json:"-" bson:"raw,omitempty"`
}

// Normalize enforces the snapshot invariants: a non-empty title (derived
// from the party names when the upstream supplies none) and the "Pending"
// status default
func (s *CaseSnapshot) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		pet := strings.TrimSpace(s.Petitioner)
		res := strings.TrimSpace(s.Respondent)
		switch {
		case pet != "" && res != "":
			s.Title = pet + " vs " + res
		case pet != "":
			s.Title = pet
		case res != "":
			s.Title = res
		default:
			s.Title = "Untitled Case"
		}
	}
	if strings.TrimSpace(s.Status) == "" {
		s.Status = "Pending"
	}
}

// SearchResult is the lighter-weight entity returned by party-name search.
// It carries enough to let a user disambiguate and start tracking; it is
// never persisted by the core.
type SearchResult struct {
	Title      string        `json:"title"`
	CaseNumber string        `json:"caseNumber,omitempty"`
	CaseYear   string        `json:"caseYear,omitempty"`
	CaseType   string        `json:"caseType,omitempty"`
	Category   CourtCategory `json:"category"`
	CourtName  string        `json:"courtName,omitempty"`
	CourtCode  string        `json:"courtCode,omitempty"`
	CNR        string        `json:"cnr,omitempty"`
	Status     string        `json:"status,omitempty"`
	Petitioner string        `json:"petitioner,omitempty"`
	Respondent string        `json:"respondent,omitempty"`
	Source     string        `json:"source"`
}

// SearchQuery holds the party-name search parameters
type SearchQuery struct {
	PartyName string        `json:"partyName"`
	Category  CourtCategory `json:"category,omitempty"`
	State     string        `json:"state,omitempty"`
	Year      string        `json:"year,omitempty"`
}
