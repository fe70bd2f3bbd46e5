package courts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quantraven93/court-tracker-api/models"
)

// aggregatorPaths maps court categories to the legal-data API's endpoint
// paths
var aggregatorPaths = map[models.CourtCategory]string{
	models.SupremeCourt:  "supreme-court",
	models.HighCourt:     "high-court",
	models.DistrictCourt: "district-court",
	models.Tribunal:      "tribunal",
	models.ConsumerForum: "consumer-forum",
}

// AggregatorProvider is a client for the paid normalized legal-data API. No
// CAPTCHA, no scraping; just a keyed REST call whose field spellings drift
// between snake_case variants across endpoints.
type AggregatorProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAggregatorProvider builds the provider; an empty apiKey produces a
// provider whose every lookup is a null result
func NewAggregatorProvider(baseURL, apiKey string) *AggregatorProvider {
	return &AggregatorProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 9 * time.Second,
		},
	}
}

// Name implements Provider
func (p *AggregatorProvider) Name() string { return "aggregator" }

// SupportsCNR implements Provider
func (p *AggregatorProvider) SupportsCNR() bool { return true }

func (p *AggregatorProvider) configured() bool {
	return p.apiKey != "" && p.baseURL != ""
}

// Status implements Provider
func (p *AggregatorProvider) Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error) {
	if !p.configured() {
		return nil, nil
	}
	path, ok := aggregatorPaths[id.Category]
	if !ok {
		path = aggregatorPaths[models.DistrictCourt]
	}
	q := url.Values{
		"case_type":   {firstNonEmpty(id.CaseTypeCode, id.CaseType)},
		"case_number": {id.CaseNumber},
		"year":        {id.CaseYear},
	}
	if id.CourtCode != "" {
		q.Set("court_code", id.CourtCode)
	}
	return p.fetchCase(ctx, fmt.Sprintf("%s/v1/%s/case?%s", p.baseURL, path, q.Encode()))
}

// StatusByCNR implements Provider
func (p *AggregatorProvider) StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error) {
	if !p.configured() {
		return nil, nil
	}
	return p.fetchCase(ctx, fmt.Sprintf("%s/v1/cnr/%s", p.baseURL, url.PathEscape(cnr)))
}

// Search implements Provider
func (p *AggregatorProvider) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	if !p.configured() {
		return nil, nil
	}
	params := url.Values{"party_name": {q.PartyName}}
	if q.Category != "" {
		if path, ok := aggregatorPaths[q.Category]; ok {
			params.Set("court", path)
		}
	}
	if q.Year != "" {
		params.Set("year", q.Year)
	}

	payload, err := p.fetch(ctx, fmt.Sprintf("%s/v1/search?%s", p.baseURL, params.Encode()))
	if err != nil || payload == nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, item := range payloadList(payload, "results", "cases", "data") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		r := models.SearchResult{
			Title:      pick(m, "title", "case_title", "case_name"),
			CaseNumber: pick(m, "case_number", "case_no", "caseNumber"),
			CaseYear:   pick(m, "year", "case_year"),
			CaseType:   pick(m, "case_type", "type"),
			CourtName:  pick(m, "court_name", "court"),
			CNR:        pick(m, "cnr", "cnr_number"),
			Status:     pick(m, "status", "case_status"),
			Petitioner: pick(m, "petitioner", "appellant"),
			Respondent: pick(m, "respondent", "defendant"),
			Category:   categoryFromLabel(pick(m, "court_type", "court_name", "court")),
			Source:     "aggregator",
		}
		if r.Title == "" && r.Petitioner == "" {
			continue
		}
		if r.Title == "" {
			r.Title = r.Petitioner + " vs " + r.Respondent
		}
		results = append(results, r)
	}
	return results, nil
}

// fetchCase fetches and normalizes one case payload
func (p *AggregatorProvider) fetchCase(ctx context.Context, target string) (*models.CaseSnapshot, error) {
	payload, err := p.fetch(ctx, target)
	if err != nil || payload == nil {
		return nil, err
	}
	return normalizeAggregatorCase(payload), nil
}

// fetch performs a keyed GET and decodes the JSON body. A payload carrying
// an explicit error field means "not found", not a transport failure.
func (p *AggregatorProvider) fetch(ctx context.Context, target string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("aggregator returned status %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode aggregator response: %w", err)
	}
	if pick(payload, "error", "error_message", "errorMsg") != "" {
		return nil, nil
	}
	return payload, nil
}

// normalizeAggregatorCase maps the API's drifting snake_case spellings onto
// the canonical snapshot shape
func normalizeAggregatorCase(payload map[string]interface{}) *models.CaseSnapshot {
	// some endpoints nest the case under a wrapper key
	for _, key := range []string{"case", "data", "result"} {
		if inner, ok := payload[key].(map[string]interface{}); ok {
			payload = inner
			break
		}
	}

	raw, _ := json.Marshal(payload)
	snap := &models.CaseSnapshot{
		Title:              pick(payload, "title", "case_title", "case_name"),
		Status:             pick(payload, "status", "case_status", "stage"),
		Petitioner:         pick(payload, "petitioner", "petitioner_name", "appellant"),
		Respondent:         pick(payload, "respondent", "respondent_name", "defendant"),
		PetitionerAdvocate: pick(payload, "petitioner_advocate", "petitioner_adv"),
		RespondentAdvocate: pick(payload, "respondent_advocate", "respondent_adv"),
		Judge:              pick(payload, "judge", "judge_name", "coram", "bench"),
		FilingDate:         pick(payload, "filing_date", "filed_on", "date_of_filing"),
		RegistrationDate:   pick(payload, "registration_date", "registered_on"),
		DecisionDate:       pick(payload, "decision_date", "decided_on", "disposal_date"),
		NextHearingDate:    pick(payload, "next_hearing_date", "next_hearing", "next_date"),
		LastOrderDate:      pick(payload, "last_order_date", "latest_order_date"),
		LastOrderSummary:   pick(payload, "last_order_summary", "latest_order"),
		Raw:                string(raw),
	}

	for _, item := range payloadList(payload, "hearings", "hearing_history", "history") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry := models.HearingEntry{
			Date:      pick(m, "date", "hearing_date", "business_date"),
			Purpose:   pick(m, "purpose", "purpose_of_hearing", "business"),
			Courtroom: pick(m, "courtroom", "court_no"),
			Judge:     pick(m, "judge", "judge_name"),
		}
		if entry.Date != "" {
			snap.HearingHistory = append(snap.HearingHistory, entry)
		}
	}

	for _, item := range payloadList(payload, "orders", "order_history", "judgments") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry := models.OrderEntry{
			Date:         pick(m, "date", "order_date"),
			Type:         pick(m, "type", "order_type"),
			Summary:      pick(m, "summary", "description", "details"),
			DocumentLink: pick(m, "url", "pdf_link", "document_url"),
		}
		if entry.Date != "" {
			snap.Orders = append(snap.Orders, entry)
		}
	}

	for _, item := range payloadList(payload, "acts", "acts_cited", "under_acts") {
		if s, ok := item.(string); ok && s != "" {
			snap.ActsCited = append(snap.ActsCited, s)
		}
	}

	if snap.Title == "" && snap.Petitioner == "" && snap.Status == "" {
		return nil
	}
	snap.Normalize()
	return snap
}

// pick returns the first non-empty string value among the aliased keys
func pick(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// payloadList returns the first list value among the aliased keys
func payloadList(m map[string]interface{}, keys ...string) []interface{} {
	for _, k := range keys {
		if v, ok := m[k].([]interface{}); ok {
			return v
		}
	}
	return nil
}
