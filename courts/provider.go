// Package courts resolves Indian court cases across heterogeneous upstream
// sources: the Supreme Court portal, the eCourts high-court and
// district-court portals, a paid normalized legal-data API, and a free
// public case-law search engine. Each source is wrapped in a Provider; the
// ResolutionService orchestrates them with priority ordering and per-source
// failure isolation.
package courts

import (
	"context"

	"github.com/quantraven93/court-tracker-api/models"
)

// Provider is an adapter to one upstream case-data source. Implementations
// return (nil, nil) for "the upstream explicitly has no matching record" and
// a non-nil error only for transport-level failures; the orchestrator logs
// errors and falls through to the next provider either way.
type Provider interface {
	Name() string

	// SupportsCNR reports whether the source can look a case up by its
	// national registry number. Checked before calling StatusByCNR;
	// providers without the capability return (nil, nil) from it.
	SupportsCNR() bool

	Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error)
	Status(ctx context.Context, id models.CaseIdentifier) (*models.CaseSnapshot, error)
	StatusByCNR(ctx context.Context, cnr string) (*models.CaseSnapshot, error)
}
