package courts

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/captcha"
	"github.com/quantraven93/court-tracker-api/markup"
	"github.com/quantraven93/court-tracker-api/models"
)

// supremeCourtCaseTypes maps the registry's case-type labels to the numeric
// codes its search form expects. Keys are normalized (uppercased, stripped
// of punctuation and whitespace) so user-entered variants like "C.A." and
// "ca" land on the same code.
var supremeCourtCaseTypes = map[string]string{
	"SPECIALLEAVEPETITIONCIVIL":    "1",
	"SLP":                          "1",
	"SLPC":                         "1",
	"SPECIALLEAVEPETITIONCRIMINAL": "2",
	"SLPCRL":                       "2",
	"CIVILAPPEAL":                  "3",
	"CA":                           "3",
	"CRIMINALAPPEAL":               "4",
	"CRLA":                         "4",
	"WRITPETITIONCIVIL":            "5",
	"WPC":                          "5",
	"WRITPETITIONCRIMINAL":         "6",
	"WPCRL":                        "6",
	"TRANSFERPETITIONCIVIL":        "7",
	"TPC":                          "7",
	"REVIEWPETITIONCIVIL":          "8",
	"RPC":                          "8",
	"CONTEMPTPETITIONCIVIL":        "9",
	"DIARYNUMBER":                  "0",
}

// defaultSupremeCourtCaseType is used when a label matches nothing in the
// table: Civil Appeal, the most common appellate type. An unrecognized label
// is logged but never fails the lookup outright.
const defaultSupremeCourtCaseType = "3"

var nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]+`)

// resolveSupremeCourtCaseType maps a free-text case-type label to a registry
// code: exact normalized match first, then the documented default
func resolveSupremeCourtCaseType(label string) string {
	norm := nonAlnumRe.ReplaceAllString(strings.ToUpper(label), "")
	if code, ok := supremeCourtCaseTypes[norm]; ok {
		return code
	}
	zap.S().Warnw("unrecognized supreme court case type, using default code",
		"caseType", label,
		"defaultCode", defaultSupremeCourtCaseType,
	)
	return defaultSupremeCourtCaseType
}

// SupremeCourtProvider scrapes the Supreme Court of India case-status portal
type SupremeCourtProvider struct {
	baseURL    string
	client     *portalClient
	negotiator *negotiator
}

// NewSupremeCourtProvider builds the provider against the given portal base
// URL, with CAPTCHAs solved by the given solver
func NewSupremeCourtProvider(baseURL string, solver *captcha.Solver) *SupremeCourtProvider {
	client := newPortalClient(12 * time.Second)
	return &SupremeCourtProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     client,
		negotiator: &negotiator{client: client, solver: solver},
	}
}

// Name implements Provider
func (p *SupremeCourtProvider) Name() string { return "supreme_court" }

// SupportsCNR implements Provider. The Supreme Court portal predates the
// national registry numbering and cannot look cases up by CNR.
func (p *SupremeCourtProvider) SupportsCNR() bool { return false }

// StatusByCNR implements Provider; always a null result, never a guess
func (p *SupremeCourtProvider) StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error) {
	return nil, nil
}

// Status implements Provider
func (p *SupremeCourtProvider) Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error) {
	typeCode := id.CaseTypeCode
	if typeCode == "" {
		typeCode = resolveSupremeCourtCaseType(id.CaseType)
	}

	var snapshot *models.CaseSnapshot
	err := withFreshSession(ctx, p.Name(), p.negotiator, p.baseURL+"/case-status", func(ctx context.Context, s *session) error {
		form := url.Values{
			"case_type":   {typeCode},
			"case_no":     {id.CaseNumber},
			"year":        {id.CaseYear},
			"captcha":     {s.captchaAnswer},
			"csrf_token":  {s.csrfToken},
			"language":    {"en"},
			"search_type": {"case_no"},
		}
		body, _, err := p.client.postForm(ctx, p.baseURL+"/case-status/submit", s.cookies, form)
		if err != nil {
			return err
		}
		if looksLikeCaptchaRejection(body) {
			return errCaptchaRejected
		}
		if looksLikeNoRecord(body) {
			return nil
		}
		snapshot = parseSupremeCourtStatus(body)
		return nil
	})
	if errors.Is(err, errAttemptsExhausted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Search implements Provider: party-name search against the portal
func (p *SupremeCourtProvider) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	var results []models.SearchResult
	err := withFreshSession(ctx, p.Name(), p.negotiator, p.baseURL+"/case-status", func(ctx context.Context, s *session) error {
		form := url.Values{
			"party_name":  {q.PartyName},
			"year":        {q.Year},
			"captcha":     {s.captchaAnswer},
			"csrf_token":  {s.csrfToken},
			"search_type": {"party_name"},
		}
		body, _, err := p.client.postForm(ctx, p.baseURL+"/case-status/submit", s.cookies, form)
		if err != nil {
			return err
		}
		if looksLikeCaptchaRejection(body) {
			return errCaptchaRejected
		}
		if looksLikeNoRecord(body) {
			return nil
		}
		results = parseSupremeCourtSearch(body)
		return nil
	})
	if errors.Is(err, errAttemptsExhausted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// parseSupremeCourtStatus extracts a snapshot from the portal's case detail
// markup, best-effort per field
func parseSupremeCourtStatus(body string) *models.CaseSnapshot {
	snap := &models.CaseSnapshot{
		Title:              markup.ExtractField(body, "Case Title"),
		Status:             firstNonEmpty(markup.ExtractField(body, "Status"), markup.ExtractField(body, "Case Status")),
		Petitioner:         markup.ExtractField(body, "Petitioner(s)"),
		Respondent:         markup.ExtractField(body, "Respondent(s)"),
		PetitionerAdvocate: markup.ExtractField(body, "Petitioner Advocate"),
		RespondentAdvocate: markup.ExtractField(body, "Respondent Advocate"),
		Judge:              firstNonEmpty(markup.ExtractField(body, "Coram"), markup.ExtractField(body, "Judge")),
		FilingDate:         firstNonEmpty(markup.ExtractField(body, "Filed On"), markup.ExtractField(body, "Filing Date")),
		RegistrationDate:   markup.ExtractField(body, "Registered On"),
		DecisionDate:       firstNonEmpty(markup.ExtractField(body, "Decided On"), markup.ExtractField(body, "Disposal Date")),
		NextHearingDate:    firstNonEmpty(markup.ExtractField(body, "Next Date"), markup.ExtractField(body, "Tentatively Listed On")),
		LastOrderDate:      markup.ExtractField(body, "Last Order Date"),
		Raw:                body,
	}

	for _, row := range markup.ExtractTableRows(body, []string{"Listing Dates", "Hearing Details", "Case Proceedings"}) {
		entry := models.HearingEntry{Date: row[0]}
		if len(row) > 1 {
			entry.Purpose = row[1]
		}
		if len(row) > 2 {
			entry.Courtroom = row[2]
		}
		snap.HearingHistory = append(snap.HearingHistory, entry)
	}

	for _, row := range markup.ExtractTableRows(body, []string{"Judgement/Orders", "Interlocutory Application", "Orders"}) {
		entry := models.OrderEntry{Date: row[0]}
		if len(row) > 1 {
			entry.Type = row[1]
		}
		if len(row) > 2 {
			entry.Summary = row[2]
		}
		snap.Orders = append(snap.Orders, entry)
	}

	if len(snap.Orders) > 0 && snap.LastOrderDate == "" {
		last := snap.Orders[len(snap.Orders)-1]
		snap.LastOrderDate = last.Date
		snap.LastOrderSummary = firstNonEmpty(last.Summary, last.Type)
	}

	snap.Normalize()
	if snap.Title == "Untitled Case" && snap.Status == "Pending" && len(snap.HearingHistory) == 0 {
		// the parse found nothing recognizable at all
		return nil
	}
	return snap
}

// parseSupremeCourtSearch extracts search-result rows from the portal's
// party-name result table
func parseSupremeCourtSearch(body string) []models.SearchResult {
	var results []models.SearchResult
	for _, row := range markup.ExtractTableRows(body, []string{"Search Result", "Party Name"}) {
		if len(row) < 2 {
			continue
		}
		// columns: serial, case number, title, [status]
		r := models.SearchResult{
			Category:   models.SupremeCourt,
			CourtName:  "Supreme Court of India",
			Source:     "supreme_court",
			CaseNumber: row[0],
			Title:      row[1],
		}
		if len(row) > 1 && looksLikeCaseNumber(row[1]) {
			// some renderings put serial first: shift one column right
			r.CaseNumber = row[1]
			if len(row) > 2 {
				r.Title = row[2]
			}
		}
		if len(row) > 3 {
			r.Status = row[3]
		}
		if r.Title == "" {
			continue
		}
		results = append(results, r)
	}
	return results
}

var caseNumberRe = regexp.MustCompile(`(?i)\b(?:no\.?|number)?\s*\d+\s*(?:/|of)\s*(19|20)\d{2}\b`)

func looksLikeCaseNumber(s string) bool {
	return caseNumberRe.MatchString(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
