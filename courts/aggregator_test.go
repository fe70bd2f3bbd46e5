package courts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantraven93/court-tracker-api/models"
)

func TestAggregatorStatus(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"case": {
				"case_title": "Ram Kumar vs State of U.P.",
				"case_status": "Disposed",
				"petitioner_name": "Ram Kumar",
				"respondent_name": "State of U.P.",
				"judge_name": "Justice A. B. Verma",
				"next_hearing": "",
				"decided_on": "15-06-2026",
				"last_order_date": "15-06-2026",
				"latest_order": "Appeal dismissed",
				"hearings": [
					{"hearing_date": "10-05-2026", "purpose_of_hearing": "Final Arguments"}
				],
				"orders": [
					{"order_date": "15-06-2026", "description": "Appeal dismissed", "pdf_link": "https://cdn.example/o1.pdf"}
				],
				"acts": ["IPC"]
			}
		}`))
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.Status(context.Background(), models.CaseIdentifier{
		Category:   models.HighCourt,
		CaseType:   "CRA",
		CaseNumber: "77",
		CaseYear:   "2024",
	})

	assert.Nil(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, "/v1/high-court/case", gotPath)
	assert.Equal(t, "key-1", gotKey)
	assert.Contains(t, gotQuery, "case_number=77")
	assert.Contains(t, gotQuery, "year=2024")

	assert.Equal(t, "Ram Kumar vs State of U.P.", snap.Title)
	assert.Equal(t, "Disposed", snap.Status)
	assert.Equal(t, "Justice A. B. Verma", snap.Judge)
	assert.Equal(t, "15-06-2026", snap.LastOrderDate)
	assert.Equal(t, "Appeal dismissed", snap.LastOrderSummary)
	assert.Len(t, snap.HearingHistory, 1)
	assert.Equal(t, "Final Arguments", snap.HearingHistory[0].Purpose)
	assert.Len(t, snap.Orders, 1)
	assert.Equal(t, "https://cdn.example/o1.pdf", snap.Orders[0].DocumentLink)
	assert.Equal(t, []string{"IPC"}, snap.ActsCited)
}

func TestAggregatorStatus_UnknownCategoryUsesDistrictPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"error": "no such case"}`))
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.Status(context.Background(), models.CaseIdentifier{Category: "SomethingElse", CaseNumber: "1", CaseYear: "2020"})

	assert.Nil(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, "/v1/district-court/case", gotPath)
}

func TestAggregatorStatusByCNR(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": {"title": "Sita Devi vs Union of India", "status": "Pending"}}`))
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.StatusByCNR(context.Background(), "DLHC010099882022")

	assert.Nil(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, "/v1/cnr/DLHC010099882022", gotPath)
	assert.Equal(t, "Sita Devi vs Union of India", snap.Title)
	assert.Equal(t, "Pending", snap.Status)
}

func TestAggregator_NotFoundStatusIsNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.StatusByCNR(context.Background(), "NONE")

	assert.Nil(t, err)
	assert.Nil(t, snap)
}

func TestAggregator_ErrorFieldIsNullNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_message": "case not found in index"}`))
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.StatusByCNR(context.Background(), "NONE")

	assert.Nil(t, err)
	assert.Nil(t, snap)
}

func TestAggregator_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	snap, err := p.StatusByCNR(context.Background(), "ANY")

	assert.Nil(t, snap)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestAggregator_UnconfiguredIsNull(t *testing.T) {
	p := NewAggregatorProvider("", "")

	snap, err := p.Status(context.Background(), models.CaseIdentifier{CaseNumber: "1"})
	assert.Nil(t, snap)
	assert.Nil(t, err)

	snap, err = p.StatusByCNR(context.Background(), "X")
	assert.Nil(t, snap)
	assert.Nil(t, err)

	results, err := p.Search(context.Background(), models.SearchQuery{PartyName: "Ram"})
	assert.Nil(t, results)
	assert.Nil(t, err)
}

func TestAggregatorSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"results": [
				{"case_title": "Ram Kumar vs State", "case_no": "55/2024", "court_name": "Allahabad High Court", "case_status": "Pending"},
				{"petitioner": "Sita Devi", "defendant": "Union of India", "court_type": "Supreme Court of India"},
				{"cnr": "orphan-without-names"}
			]
		}`))
	}))
	defer srv.Close()

	p := NewAggregatorProvider(srv.URL, "key-1")
	results, err := p.Search(context.Background(), models.SearchQuery{PartyName: "Ram Kumar", Category: models.HighCourt})

	assert.Nil(t, err)
	assert.Contains(t, gotQuery, "party_name=Ram+Kumar")
	assert.Contains(t, gotQuery, "court=high-court")
	assert.Len(t, results, 2)

	assert.Equal(t, "Ram Kumar vs State", results[0].Title)
	assert.Equal(t, "55/2024", results[0].CaseNumber)
	assert.Equal(t, models.HighCourt, results[0].Category)
	assert.Equal(t, "aggregator", results[0].Source)

	// title synthesized from the party names
	assert.Equal(t, "Sita Devi vs Union of India", results[1].Title)
	assert.Equal(t, models.SupremeCourt, results[1].Category)
}
