package courts

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/captcha"
	"github.com/quantraven93/court-tracker-api/markup"
	"github.com/quantraven93/court-tracker-api/models"
)

// EcourtsProvider scrapes the eCourts portals, which front both the high
// courts and the district judiciary. Tribunal and consumer-forum cases are
// served by the district-court deployment, so those categories route to the
// district endpoint.
type EcourtsProvider struct {
	highCourtURL     string
	districtCourtURL string
	client           *portalClient
	negotiator       *negotiator
}

// NewEcourtsProvider builds the provider against the two portal deployments
func NewEcourtsProvider(highCourtURL, districtCourtURL string, solver *captcha.Solver) *EcourtsProvider {
	client := newPortalClient(15 * time.Second)
	return &EcourtsProvider{
		highCourtURL:     strings.TrimSuffix(highCourtURL, "/"),
		districtCourtURL: strings.TrimSuffix(districtCourtURL, "/"),
		client:           client,
		negotiator:       &negotiator{client: client, solver: solver},
	}
}

// Name implements Provider
func (p *EcourtsProvider) Name() string { return "ecourts" }

// SupportsCNR implements Provider
func (p *EcourtsProvider) SupportsCNR() bool { return true }

// endpointFor picks the deployment for a court category. Everything that is
// not a high court lives in the district bucket.
func (p *EcourtsProvider) endpointFor(category models.CourtCategory) string {
	if category == models.HighCourt {
		return p.highCourtURL
	}
	return p.districtCourtURL
}

// Status implements Provider
func (p *EcourtsProvider) Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error) {
	base := p.endpointFor(id.Category)

	var snapshot *models.CaseSnapshot
	err := withFreshSession(ctx, p.Name(), p.negotiator, base+"/cases/case_no.php", func(ctx context.Context, s *session) error {
		form := url.Values{
			"case_type":   {firstNonEmpty(id.CaseTypeCode, id.CaseType)},
			"case_no":     {id.CaseNumber},
			"rgyear":      {id.CaseYear},
			"state_code":  {id.StateCode},
			"dist_code":   {id.DistrictCode},
			"court_code":  {id.CourtCode},
			"captcha":     {s.captchaAnswer},
			"app_token":   {s.csrfToken},
			"action_code": {"showRecords"},
			"search_flag": {"CScaseNumber"},
		}
		body, _, err := p.client.postForm(ctx, base+"/cases/submit_case_no.php", s.cookies, form)
		if err != nil {
			return err
		}
		if looksLikeCaptchaRejection(body) {
			return errCaptchaRejected
		}
		if looksLikeNoRecord(body) {
			return nil
		}
		snapshot = parseEcourtsStatus(body)
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

// StatusByCNR implements Provider. The CNR format does not document which
// prefixes belong to which court tier, so both deployments are raced and
// the first non-null parse wins.
func (p *EcourtsProvider) StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error) {
	type outcome struct {
		snap *models.CaseSnapshot
		err  error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan outcome, 2)
	for _, base := range []string{p.highCourtURL, p.districtCourtURL} {
		go func(base string) {
			snap, err := p.statusByCNRAt(ctx, base, cnr)
			results <- outcome{snap: snap, err: err}
		}(base)
	}

	var lastErr error
	for i := 0; i < 2; i++ {
		out := <-results
		if out.err != nil {
			lastErr = out.err
			continue
		}
		if out.snap != nil {
			return out.snap, nil
		}
	}
	if lastErr != nil {
		zap.S().Debugw("cnr lookup failed on both endpoints", "cnr", cnr, "error", lastErr)
	}
	return nil, lastErr
}

func (p *EcourtsProvider) statusByCNRAt(ctx context.Context, base, cnr string) (*models.CaseSnapshot, error) {
	var snapshot *models.CaseSnapshot
	err := withFreshSession(ctx, p.Name(), p.negotiator, base+"/cases/cnr_status.php", func(ctx context.Context, s *session) error {
		form := url.Values{
			"cino":      {cnr},
			"captcha":   {s.captchaAnswer},
			"app_token": {s.csrfToken},
		}
		body, _, err := p.client.postForm(ctx, base+"/cases/submit_cnr.php", s.cookies, form)
		if err != nil {
			return err
		}
		if looksLikeCaptchaRejection(body) {
			return errCaptchaRejected
		}
		if looksLikeNoRecord(body) {
			return nil
		}
		snapshot = parseEcourtsStatus(body)
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

// Search implements Provider: party-name search
func (p *EcourtsProvider) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	base := p.endpointFor(q.Category)
	category := q.Category
	if category == "" {
		category = models.DistrictCourt
	}

	var results []models.SearchResult
	err := withFreshSession(ctx, p.Name(), p.negotiator, base+"/cases/party_name.php", func(ctx context.Context, s *session) error {
		form := url.Values{
			"party_name": {q.PartyName},
			"rgyear":     {q.Year},
			"state_code": {q.State},
			"captcha":    {s.captchaAnswer},
			"app_token":  {s.csrfToken},
		}
		body, _, err := p.client.postForm(ctx, base+"/cases/submit_party_name.php", s.cookies, form)
		if err != nil {
			return err
		}
		if looksLikeCaptchaRejection(body) {
			return errCaptchaRejected
		}
		if looksLikeNoRecord(body) {
			return nil
		}
		results = parseEcourtsSearch(body, category)
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

// parseEcourtsStatus extracts a snapshot from an eCourts case-detail page
func parseEcourtsStatus(body string) *models.CaseSnapshot {
	snap := &models.CaseSnapshot{
		Status:           firstNonEmpty(markup.ExtractField(body, "Case Status"), markup.ExtractField(body, "Case Stage"), markup.ExtractField(body, "Stage of Case")),
		Petitioner:       firstNonEmpty(markup.ExtractField(body, "Petitioner"), markup.ExtractField(body, "Petitioner and Advocate")),
		Respondent:       firstNonEmpty(markup.ExtractField(body, "Respondent"), markup.ExtractField(body, "Respondent and Advocate")),
		Judge:            firstNonEmpty(markup.ExtractField(body, "Court Number and Judge"), markup.ExtractField(body, "Judge")),
		FilingDate:       markup.ExtractField(body, "Filing Date"),
		RegistrationDate: markup.ExtractField(body, "Registration Date"),
		DecisionDate:     markup.ExtractField(body, "Decision Date"),
		NextHearingDate:  firstNonEmpty(markup.ExtractField(body, "Next Hearing Date"), markup.ExtractField(body, "Next Date")),
		Raw:              body,
	}

	// "X and Advocate" cells carry both names split by a line break that
	// StripTags collapsed to a space; keep the full text as the party and
	// peel an advocate suffix when present
	snap.Petitioner, snap.PetitionerAdvocate = splitPartyAdvocate(snap.Petitioner)
	snap.Respondent, snap.RespondentAdvocate = splitPartyAdvocate(snap.Respondent)

	for _, row := range markup.ExtractTableRows(body, []string{"Case History", "History of Case Hearing"}) {
		// columns: judge, business date, hearing date, purpose
		entry := models.HearingEntry{}
		switch len(row) {
		case 1:
			entry.Date = row[0]
		case 2:
			entry.Date = row[0]
			entry.Purpose = row[1]
		default:
			entry.Judge = row[0]
			entry.Date = row[1]
			entry.Purpose = row[len(row)-1]
		}
		if entry.Date == "" {
			continue
		}
		snap.HearingHistory = append(snap.HearingHistory, entry)
	}

	for _, row := range markup.ExtractTableRows(body, []string{"Orders", "Order Details"}) {
		if len(row) < 2 {
			continue
		}
		// columns: order number, order date, details/link
		entry := models.OrderEntry{Date: row[1]}
		if len(row) > 2 {
			entry.Summary = row[2]
		}
		snap.Orders = append(snap.Orders, entry)
	}
	if len(snap.Orders) > 0 {
		last := snap.Orders[len(snap.Orders)-1]
		snap.LastOrderDate = last.Date
		snap.LastOrderSummary = last.Summary
	}

	if acts := markup.ExtractField(body, "Under Act(s)"); acts != "" {
		for _, a := range strings.Split(acts, ",") {
			if a = strings.TrimSpace(a); a != "" {
				snap.ActsCited = append(snap.ActsCited, a)
			}
		}
	}

	snap.Normalize()
	if snap.Petitioner == "" && snap.Respondent == "" && len(snap.HearingHistory) == 0 && snap.NextHearingDate == "" {
		return nil
	}
	return snap
}

// splitPartyAdvocate peels a trailing "Advocate- name" off a combined
// party/advocate cell
func splitPartyAdvocate(combined string) (party, advocate string) {
	for _, marker := range []string{"Advocate-", "Advocate -", "Advocate:"} {
		if i := strings.Index(combined, marker); i >= 0 {
			return strings.TrimSpace(strings.TrimSuffix(combined[:i], "-")), strings.TrimSpace(combined[i+len(marker):])
		}
	}
	return combined, ""
}

// parseEcourtsSearch extracts party-name search rows
func parseEcourtsSearch(body string, category models.CourtCategory) []models.SearchResult {
	var results []models.SearchResult
	for _, row := range markup.ExtractTableRows(body, []string{"Search Result", "Party Name", "Case Details"}) {
		if len(row) < 2 {
			continue
		}
		r := models.SearchResult{
			Category: category,
			Source:   "ecourts",
		}
		if looksLikeCaseNumber(row[0]) {
			r.CaseNumber = row[0]
			r.Title = row[1]
		} else if len(row) > 2 && looksLikeCaseNumber(row[1]) {
			r.CaseNumber = row[1]
			r.Title = row[2]
		} else {
			r.Title = row[len(row)-1]
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
