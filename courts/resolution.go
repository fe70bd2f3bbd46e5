package courts

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/models"
)

// ErrInvalidIdentifier is returned when a lookup lacks both a CNR and a
// complete case-number triple, or a search lacks a party name
var ErrInvalidIdentifier = errors.New("case identifier is incomplete")

// Resolution is a resolved snapshot tagged with the provider that produced it
type Resolution struct {
	Snapshot *models.CaseSnapshot
	Source   string
}

// ResolutionService fans a lookup across the configured providers in
// priority order. A provider returning a null result means "no record
// there"; a provider returning an error means the transport failed. Both
// cause a fall-through to the next provider, and only total exhaustion
// yields a null resolution.
type ResolutionService struct {
	official      map[models.CourtCategory]Provider
	aggregator    Provider
	public        Provider
	officialFirst bool
}

// NewResolutionService wires the providers. aggregator and public may be
// nil when unconfigured.
func NewResolutionService(sc, ecourts, aggregator, public Provider, officialFirst bool) *ResolutionService {
	official := map[models.CourtCategory]Provider{}
	if sc != nil {
		official[models.SupremeCourt] = sc
	}
	if ecourts != nil {
		official[models.HighCourt] = ecourts
		official[models.DistrictCourt] = ecourts
		official[models.Tribunal] = ecourts
		official[models.ConsumerForum] = ecourts
	}
	return &ResolutionService{
		official:      official,
		aggregator:    aggregator,
		public:        public,
		officialFirst: officialFirst,
	}
}

// statusChain returns the providers to try, highest priority first: the
// official portal for the case's category, then the aggregator, then any
// remaining CNR-capable provider when the identifier carries a CNR
func (s *ResolutionService) statusChain(id models.CaseIdentifier) []Provider {
	var chain []Provider
	seen := map[string]bool{}
	add := func(p Provider) {
		if p == nil || seen[p.Name()] {
			return
		}
		seen[p.Name()] = true
		chain = append(chain, p)
	}

	add(s.official[id.Category])
	add(s.aggregator)
	if strings.TrimSpace(id.CNR) != "" {
		for _, p := range s.official {
			if p.SupportsCNR() {
				add(p)
			}
		}
	}
	return chain
}

// ResolveStatus resolves a case to a snapshot, or to nil when no provider
// has a record. CNR lookup is preferred on every provider that supports it.
func (s *ResolutionService) ResolveStatus(ctx context.Context, id models.CaseIdentifier) (*Resolution, error) {
	if !id.Valid() {
		return nil, ErrInvalidIdentifier
	}

	var lastErr error
	for _, p := range s.statusChain(id) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var snap *models.CaseSnapshot
		var err error
		if strings.TrimSpace(id.CNR) != "" && p.SupportsCNR() {
			snap, err = p.StatusByCNR(ctx, strings.TrimSpace(id.CNR))
			if snap == nil && err == nil && id.CaseNumber != "" {
				snap, err = p.Status(ctx, id)
			}
		} else {
			snap, err = p.Status(ctx, id)
		}

		if err != nil {
			zap.S().Warnw("provider lookup failed, falling through",
				"provider", p.Name(), "category", id.Category, "error", err)
			lastErr = err
			continue
		}
		if snap == nil {
			zap.S().Debugw("provider has no record", "provider", p.Name(), "category", id.Category)
			continue
		}
		return &Resolution{Snapshot: snap, Source: p.Name()}, nil
	}
	return nil, lastErr
}

// SearchByParty runs a party-name search. The free public index answers
// most queries fastest, so it runs first and short-circuits when it finds
// anything; officialFirst flips that order for deployments that prefer
// authoritative results at the cost of CAPTCHA solves.
func (s *ResolutionService) SearchByParty(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	if strings.TrimSpace(q.PartyName) == "" {
		return nil, ErrInvalidIdentifier
	}

	tiers := [][]Provider{{s.public}, s.officialSearchers(q), {s.aggregator}}
	if s.officialFirst {
		tiers = [][]Provider{s.officialSearchers(q), {s.aggregator}, {s.public}}
	}

	var lastErr error
	for _, tier := range tiers {
		var results []models.SearchResult
		for _, p := range tier {
			if p == nil {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			found, err := p.Search(ctx, q)
			if err != nil {
				zap.S().Warnw("provider search failed, falling through",
					"provider", p.Name(), "error", err)
				lastErr = err
				continue
			}
			results = append(results, found...)
		}
		if len(results) > 0 {
			return dedupeResults(results), nil
		}
	}
	return nil, lastErr
}

// officialSearchers returns the official portals worth asking for a query,
// narrowed to one portal when the query names a category
func (s *ResolutionService) officialSearchers(q models.SearchQuery) []Provider {
	if q.Category != "" {
		if p, ok := s.official[q.Category]; ok {
			return []Provider{p}
		}
		return nil
	}
	var out []Provider
	seen := map[string]bool{}
	for _, cat := range []models.CourtCategory{models.SupremeCourt, models.HighCourt} {
		if p, ok := s.official[cat]; ok && !seen[p.Name()] {
			seen[p.Name()] = true
			out = append(out, p)
		}
	}
	return out
}

// dedupeResults drops near-duplicate rows. Two results collide when their
// lowercased titles share the same leading 30 characters; titles drift in
// punctuation and casing across sources but rarely in their opening words.
func dedupeResults(results []models.SearchResult) []models.SearchResult {
	seen := map[string]bool{}
	out := results[:0]
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if len(key) > 30 {
			key = key[:30]
		}
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
