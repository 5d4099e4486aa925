// Package resolver classifies organism names by breadth-first traversal of
// the knowledge graph, starting from the entity linked to the name's
// encyclopedia article and following taxonomic and conceptual edges until a
// node matches a group's external id.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

// DefaultMaxNodes bounds traversal when no explicit limit is configured.
const DefaultMaxNodes = 500

type seedLookup interface {
	LookupEntityID(ctx context.Context, name, language string) (string, error)
}

type claimsFetcher interface {
	FetchClaims(ctx context.Context, id string) (domain.GraphEntity, error)
}

type nodeRecorder interface {
	ObserveNodesVisited(n int)
}

// Trace describes how one resolution ended.
type Trace struct {
	GroupID string
	// SeedID is the entity the traversal started from, empty if the name
	// could not be linked.
	SeedID string
	// MatchedID is the entity that matched a group, empty when unresolved.
	MatchedID string
	Visited   int
	// Truncated is set when traversal stopped on the node bound or on
	// context cancellation.
	Truncated bool
}

// Service resolves names to groups. Safe for concurrent use; every call owns
// its traversal state.
type Service struct {
	log      *slog.Logger
	registry *taxonomy.Registry
	seeds    seedLookup
	claims   claimsFetcher
	recorder nodeRecorder
	maxNodes int
}

// NewService creates a resolver. maxNodes <= 0 selects DefaultMaxNodes.
// recorder may be nil.
func NewService(
	logger *slog.Logger,
	registry *taxonomy.Registry,
	seeds seedLookup,
	claims claimsFetcher,
	maxNodes int,
	recorder nodeRecorder,
) *Service {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Service{
		log:      logger.With("service", "resolver"),
		registry: registry,
		seeds:    seeds,
		claims:   claims,
		recorder: recorder,
		maxNodes: maxNodes,
	}
}

// ResolveGroup returns the group id for name. It never fails: every error
// path yields the fallback group.
func (s *Service) ResolveGroup(ctx context.Context, name, language string) string {
	return s.Resolve(ctx, name, language).GroupID
}

// Resolve is ResolveGroup with traversal details.
func (s *Service) Resolve(ctx context.Context, name, language string) Trace {
	trace := Trace{GroupID: s.registry.Fallback().ID}

	name = strings.TrimSpace(name)
	if name == "" {
		return trace
	}

	seed, err := s.seeds.LookupEntityID(ctx, name, language)
	if err != nil {
		s.log.WarnContext(ctx, "seed lookup failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return trace
	}
	if seed == "" {
		s.log.DebugContext(ctx, "no entity for name", slog.String("name", name))
		return trace
	}
	trace.SeedID = seed

	st := newState(seed)
	trace = s.traverse(ctx, name, st, trace)
	trace.Visited = st.visitedCount()
	if s.recorder != nil {
		s.recorder.ObserveNodesVisited(trace.Visited)
	}

	s.log.DebugContext(ctx, "resolution finished",
		slog.String("name", name),
		slog.String("group", trace.GroupID),
		slog.String("seed", trace.SeedID),
		slog.String("matched", trace.MatchedID),
		slog.Int("visited", trace.Visited),
		slog.Bool("truncated", trace.Truncated),
	)
	return trace
}

// traverse runs the breadth-first search one depth at a time. Every id of a
// layer is matched before any of them is fetched; when several groups match
// at the same depth the one listed first in the registry wins. Expansion
// order per node is parent, related-name ids, override target, conceptual ids.
func (s *Service) traverse(ctx context.Context, name string, st *state, trace Trace) Trace {
	for layer := st.layer; len(layer) > 0; layer = st.advance() {
		var (
			expand   []string
			bestRank = -1
			bestID   string
			best     domain.Group
		)

		for _, id := range layer {
			if ctx.Err() != nil {
				trace.Truncated = true
				break
			}
			if st.seen(id) || id == "" {
				continue
			}
			if st.visitedCount() >= s.maxNodes {
				s.log.WarnContext(ctx, "traversal node bound reached",
					slog.String("name", name),
					slog.Int("max_nodes", s.maxNodes),
				)
				trace.Truncated = true
				break
			}
			st.visit(id)

			if g, rank, ok := s.registry.MatchRank(id); ok {
				if bestRank < 0 || rank < bestRank {
					best, bestID, bestRank = g, id, rank
				}
				continue
			}
			expand = append(expand, id)
		}

		if bestRank >= 0 {
			trace.GroupID = taxonomy.Consolidate(best.ID)
			trace.MatchedID = bestID
			return trace
		}
		if trace.Truncated {
			return trace
		}

		for _, id := range expand {
			if ctx.Err() != nil {
				trace.Truncated = true
				return trace
			}
			entity := s.fetch(ctx, id)

			st.enqueue(entity.ParentID)
			st.enqueue(entity.RelatedNameIDs...)
			if mapped, ok := taxonomy.Override(id); ok {
				st.enqueue(mapped)
			}
			st.enqueue(entity.ConceptualIDs...)
		}
	}
	return trace
}

// fetch converts fetch failures into a dead-end entity.
func (s *Service) fetch(ctx context.Context, id string) domain.GraphEntity {
	entity, err := s.claims.FetchClaims(ctx, id)
	if err != nil {
		s.log.DebugContext(ctx, "claims fetch failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return domain.GraphEntity{ID: id}
	}
	return entity
}
