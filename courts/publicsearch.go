package courts

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/quantraven93/court-tracker-api/markup"
	"github.com/quantraven93/court-tracker-api/models"
)

var (
	resultOpenRe   = regexp.MustCompile(`(?i)<div[^>]*class="[^"]*\bresult\b[^"]*"[^>]*>`)
	resultTitleRe  = regexp.MustCompile(`(?is)<a[^>]*href="[^"]*"[^>]*>(.*?)</a>`)
	docSourceRe    = regexp.MustCompile(`(?is)<[^>]*class="[^"]*docsource[^"]*"[^>]*>(.*?)</`)
	resultCaseNoRe = regexp.MustCompile(`(?i)\b([A-Z][A-Za-z.() ]{0,30}?)\s*(?:No\.?\s*)?(\d{1,6})\s*(?:/|of)\s*((?:19|20)\d{2})\b`)
	searchHeaderRe = regexp.MustCompile(`(?is)(?:judgment dated|decided on)\s*:?\s*([0-9]{1,2}[ -/][A-Za-z0-9]{2,9}[ -/][0-9]{2,4})`)
)

// categoryLabels is checked in order; the first keyword hit wins. The order
// matters because many tribunal and consumer-forum names also contain the
// word "court".
var categoryLabels = []struct {
	keywords []string
	category models.CourtCategory
}{
	{[]string{"supreme court"}, models.SupremeCourt},
	{[]string{"high court"}, models.HighCourt},
	{[]string{"tribunal", "nclt", "nclat", "appellate", "company law"}, models.Tribunal},
	{[]string{"consumer", "ncdrc", "disputes redressal"}, models.ConsumerForum},
}

// categoryFromLabel infers a court category from a free-text court name.
// Unrecognized labels land in the district bucket, the broadest tier.
func categoryFromLabel(label string) models.CourtCategory {
	lower := strings.ToLower(label)
	for _, entry := range categoryLabels {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return models.DistrictCourt
}

// PublicSearchProvider scrapes a free public judgment-search site. It is a
// search-only last resort: the site indexes judgments, not live case status,
// so direct status lookups always miss.
type PublicSearchProvider struct {
	client *portalClient
	base   string
}

// NewPublicSearchProvider builds the provider against the public search site
func NewPublicSearchProvider(baseURL string) *PublicSearchProvider {
	return &PublicSearchProvider{
		client: newPortalClient(12 * time.Second),
		base:   strings.TrimSuffix(baseURL, "/"),
	}
}

// Name implements Provider
func (p *PublicSearchProvider) Name() string { return "publicsearch" }

// SupportsCNR implements Provider
func (p *PublicSearchProvider) SupportsCNR() bool { return false }

// Status implements Provider; the site has no status records
func (p *PublicSearchProvider) Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error) {
	return nil, nil
}

// StatusByCNR implements Provider; the site has no CNR index
func (p *PublicSearchProvider) StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error) {
	return nil, nil
}

// Search implements Provider. No session negotiation is needed; the site is
// a plain GET away.
func (p *PublicSearchProvider) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	if strings.TrimSpace(q.PartyName) == "" {
		return nil, nil
	}
	params := url.Values{"formInput": {q.PartyName}}
	body, _, err := p.client.get(ctx, p.base+"/search/?"+params.Encode(), "")
	if err != nil {
		return nil, err
	}
	results := parsePublicSearch(body)
	if q.Category != "" {
		filtered := results[:0]
		for _, r := range results {
			if r.Category == q.Category {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	return results, nil
}

// parsePublicSearch walks the result blocks of the search page. Each block
// carries a linked title and a "docsource" line naming the court. Blocks are
// segmented by the opening tags because the site nests unbalanced divs.
func parsePublicSearch(body string) []models.SearchResult {
	var results []models.SearchResult
	opens := resultOpenRe.FindAllStringIndex(body, 40)
	for i, loc := range opens {
		end := len(body)
		if i+1 < len(opens) {
			end = opens[i+1][0]
		}
		fragment := body[loc[1]:end]

		var title string
		if m := resultTitleRe.FindStringSubmatch(fragment); m != nil {
			title = markup.Clean(markup.StripTags(m[1]))
		}
		if title == "" {
			continue
		}

		var courtName string
		if m := docSourceRe.FindStringSubmatch(fragment); m != nil {
			courtName = markup.Clean(markup.StripTags(m[1]))
		}

		result := models.SearchResult{
			Title:     title,
			CourtName: courtName,
			Category:  categoryFromLabel(courtName),
			Source:    "publicsearch",
		}

		// judgment listings sometimes embed the case number in the title
		if m := resultCaseNoRe.FindStringSubmatch(title); m != nil {
			result.CaseType = strings.TrimSpace(m[1])
			result.CaseNumber = m[2]
			result.CaseYear = m[3]
		}
		if m := searchHeaderRe.FindStringSubmatch(fragment); m != nil {
			result.Status = "Disposed on " + markup.Clean(m[1])
		}
		results = append(results, result)
	}
	return results
}
