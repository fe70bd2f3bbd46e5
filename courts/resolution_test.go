package courts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantraven93/court-tracker-api/models"
)

// fakeProvider scripts one upstream source for orchestration tests
type fakeProvider struct {
	name        string
	cnrCapable  bool
	snap        *models.CaseSnapshot
	cnrSnap     *models.CaseSnapshot
	results     []models.SearchResult
	err         error
	statusCalls int
	cnrCalls    int
	searchCalls int
}

func (f *fakeProvider) Name() string      { return f.name }
func (f *fakeProvider) SupportsCNR() bool { return f.cnrCapable }

func (f *fakeProvider) Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error) {
	f.statusCalls++
	return f.snap, f.err
}

func (f *fakeProvider) StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error) {
	f.cnrCalls++
	return f.cnrSnap, f.err
}

func (f *fakeProvider) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	f.searchCalls++
	return f.results, f.err
}

func snapshotNamed(title string) *models.CaseSnapshot {
	return &models.CaseSnapshot{Title: title, Status: "Pending"}
}

var scCaseID = models.CaseIdentifier{
	Category:   models.SupremeCourt,
	CaseType:   "Civil Appeal",
	CaseNumber: "4919",
	CaseYear:   "2024",
}

func TestResolveStatus_OfficialPortalWins(t *testing.T) {
	sc := &fakeProvider{name: "supreme_court", snap: snapshotNamed("from portal")}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true, snap: snapshotNamed("from aggregator")}
	svc := NewResolutionService(sc, nil, agg, nil, false)

	res, err := svc.ResolveStatus(context.Background(), scCaseID)

	assert.Nil(t, err)
	assert.Equal(t, "supreme_court", res.Source)
	assert.Equal(t, "from portal", res.Snapshot.Title)
	assert.Equal(t, 0, agg.statusCalls)
}

func TestResolveStatus_ErrorFallsThroughToSecondary(t *testing.T) {
	sc := &fakeProvider{name: "supreme_court", err: errors.New("portal timeout")}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true, snap: snapshotNamed("from aggregator")}
	svc := NewResolutionService(sc, nil, agg, nil, false)

	res, err := svc.ResolveStatus(context.Background(), scCaseID)

	// the primary failure is absorbed, not raised
	assert.Nil(t, err)
	assert.Equal(t, "aggregator", res.Source)
}

func TestResolveStatus_NullResultFallsThrough(t *testing.T) {
	sc := &fakeProvider{name: "supreme_court"}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true, snap: snapshotNamed("from aggregator")}
	svc := NewResolutionService(sc, nil, agg, nil, false)

	res, err := svc.ResolveStatus(context.Background(), scCaseID)

	assert.Nil(t, err)
	assert.Equal(t, "aggregator", res.Source)
	assert.Equal(t, 1, sc.statusCalls)
}

func TestResolveStatus_ExhaustionWithoutErrorsIsNull(t *testing.T) {
	sc := &fakeProvider{name: "supreme_court"}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true}
	svc := NewResolutionService(sc, nil, agg, nil, false)

	res, err := svc.ResolveStatus(context.Background(), scCaseID)

	assert.Nil(t, res)
	assert.Nil(t, err)
}

func TestResolveStatus_ExhaustionAfterErrorReturnsLastError(t *testing.T) {
	boom := errors.New("everything is down")
	sc := &fakeProvider{name: "supreme_court", err: boom}
	svc := NewResolutionService(sc, nil, nil, nil, false)

	res, err := svc.ResolveStatus(context.Background(), scCaseID)

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, boom))
}

func TestResolveStatus_CNRPreferredWithFallthrough(t *testing.T) {
	// CNR lookup misses but the case-number lookup on the same provider hits
	ec := &fakeProvider{name: "ecourts", cnrCapable: true, snap: snapshotNamed("by case number")}
	svc := NewResolutionService(nil, ec, nil, nil, false)

	id := models.CaseIdentifier{
		Category:   models.HighCourt,
		CaseType:   "CWP",
		CaseNumber: "8821",
		CaseYear:   "2023",
		CNR:        "RJHC010012342023",
	}
	res, err := svc.ResolveStatus(context.Background(), id)

	assert.Nil(t, err)
	assert.Equal(t, 1, ec.cnrCalls)
	assert.Equal(t, 1, ec.statusCalls)
	assert.Equal(t, "by case number", res.Snapshot.Title)
}

func TestResolveStatus_CNROnlyIdentifierIsValid(t *testing.T) {
	ec := &fakeProvider{name: "ecourts", cnrCapable: true, cnrSnap: snapshotNamed("by cnr")}
	svc := NewResolutionService(nil, ec, nil, nil, false)

	res, err := svc.ResolveStatus(context.Background(), models.CaseIdentifier{
		Category: models.DistrictCourt,
		CNR:      "RJJD010012342023",
	})

	assert.Nil(t, err)
	assert.Equal(t, "by cnr", res.Snapshot.Title)
	assert.Equal(t, 1, ec.cnrCalls)
	assert.Equal(t, 0, ec.statusCalls)
}

func TestResolveStatus_InvalidIdentifier(t *testing.T) {
	svc := NewResolutionService(&fakeProvider{name: "supreme_court"}, nil, nil, nil, false)

	res, err := svc.ResolveStatus(context.Background(), models.CaseIdentifier{CaseNumber: "1"})

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
}

func TestSearchByParty_PublicFirstShortCircuits(t *testing.T) {
	pub := &fakeProvider{name: "publicsearch", results: []models.SearchResult{{Title: "Ram Kumar vs State"}}}
	sc := &fakeProvider{name: "supreme_court"}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true}
	svc := NewResolutionService(sc, nil, agg, pub, false)

	results, err := svc.SearchByParty(context.Background(), models.SearchQuery{PartyName: "Ram Kumar"})

	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, sc.searchCalls)
	assert.Equal(t, 0, agg.searchCalls)
}

func TestSearchByParty_OfficialFirstFlipsOrder(t *testing.T) {
	pub := &fakeProvider{name: "publicsearch", results: []models.SearchResult{{Title: "public hit"}}}
	sc := &fakeProvider{name: "supreme_court", results: []models.SearchResult{{Title: "official hit"}}}
	svc := NewResolutionService(sc, nil, nil, pub, true)

	results, err := svc.SearchByParty(context.Background(), models.SearchQuery{PartyName: "Ram Kumar"})

	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "official hit", results[0].Title)
	assert.Equal(t, 0, pub.searchCalls)
}

func TestSearchByParty_EmptyTierFallsThrough(t *testing.T) {
	pub := &fakeProvider{name: "publicsearch"}
	agg := &fakeProvider{name: "aggregator", cnrCapable: true, results: []models.SearchResult{{Title: "aggregator hit"}}}
	svc := NewResolutionService(nil, nil, agg, pub, false)

	results, err := svc.SearchByParty(context.Background(), models.SearchQuery{PartyName: "Ram Kumar"})

	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "aggregator hit", results[0].Title)
	assert.Equal(t, 1, pub.searchCalls)
}

func TestSearchByParty_CategoryNarrowsOfficialTier(t *testing.T) {
	sc := &fakeProvider{name: "supreme_court", results: []models.SearchResult{{Title: "sc hit"}}}
	ec := &fakeProvider{name: "ecourts", cnrCapable: true, results: []models.SearchResult{{Title: "hc hit"}}}
	svc := NewResolutionService(sc, ec, nil, nil, true)

	results, err := svc.SearchByParty(context.Background(), models.SearchQuery{
		PartyName: "Ram Kumar",
		Category:  models.HighCourt,
	})

	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "hc hit", results[0].Title)
	assert.Equal(t, 0, sc.searchCalls)
}

func TestSearchByParty_EmptyQuery(t *testing.T) {
	svc := NewResolutionService(nil, nil, nil, nil, false)
	results, err := svc.SearchByParty(context.Background(), models.SearchQuery{PartyName: "  "})
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
}

func TestDedupeResults(t *testing.T) {
	in := []models.SearchResult{
		{Title: "Ram Kumar vs State of Uttar Pradesh and Others"},
		{Title: "RAM KUMAR VS STATE OF UTTAR PRADESH (Appeal)"},
		{Title: "Sita Devi vs Union of India"},
		{Title: ""},
		{Title: ""},
	}

	out := dedupeResults(in)

	// the two long titles share their first 30 characters
	assert.Len(t, out, 4)
	assert.Equal(t, "Ram Kumar vs State of Uttar Pradesh and Others", out[0].Title)
	assert.Equal(t, "Sita Devi vs Union of India", out[1].Title)
}
