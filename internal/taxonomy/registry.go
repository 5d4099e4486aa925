// Package taxonomy holds the fixed classification taxonomy: the ordered group
// registry and the static lookup tables used during graph resolution.
// Everything here is immutable after package initialisation and safe for
// concurrent reads.
package taxonomy

import (
	"errors"
	"fmt"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

// ExternalRef pairs a group id with its knowledge-graph node.
type ExternalRef struct {
	GroupID    string
	ExternalID string
}

// Registry is an immutable, ordered table of groups with precomputed lookups.
type Registry struct {
	groups       []domain.Group
	byID         map[string]int
	byExternalID map[string]int
	external     []ExternalRef
	fallback     int
}

var defaultRegistry = MustNew(defaultGroups)

// Default returns the process-wide registry built from the canonical table.
func Default() *Registry { return defaultRegistry }

// New validates groups and builds a Registry. Exactly one group must lack an
// external id (the fallback); group ids and external ids must be unique.
func New(groups []domain.Group) (*Registry, error) {
	if len(groups) == 0 {
		return nil, errors.New("taxonomy: empty registry")
	}

	r := &Registry{
		groups:       make([]domain.Group, len(groups)),
		byID:         make(map[string]int, len(groups)),
		byExternalID: make(map[string]int, len(groups)),
		fallback:     -1,
	}
	copy(r.groups, groups)

	for i, g := range r.groups {
		if g.ID == "" {
			return nil, fmt.Errorf("taxonomy: group at position %d has empty id", i)
		}
		if _, dup := r.byID[g.ID]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate group id %q", g.ID)
		}
		r.byID[g.ID] = i

		if !g.HasExternalID() {
			if r.fallback >= 0 {
				return nil, fmt.Errorf("taxonomy: groups %q and %q both lack an external id",
					r.groups[r.fallback].ID, g.ID)
			}
			r.fallback = i
			continue
		}
		if prev, dup := r.byExternalID[g.ExternalID]; dup {
			return nil, fmt.Errorf("taxonomy: external id %s shared by %q and %q",
				g.ExternalID, r.groups[prev].ID, g.ID)
		}
		r.byExternalID[g.ExternalID] = i
		r.external = append(r.external, ExternalRef{GroupID: g.ID, ExternalID: g.ExternalID})
	}

	if r.fallback < 0 {
		return nil, errors.New("taxonomy: no fallback group without external id")
	}
	return r, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(groups []domain.Group) *Registry {
	r, err := New(groups)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the group with the given id, or the fallback group.
func (r *Registry) Lookup(id string) domain.Group {
	if i, ok := r.byID[id]; ok {
		return r.groups[i]
	}
	return r.groups[r.fallback]
}

// Has reports whether id names a registered group.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// MatchExternalID returns the group whose external id equals id. External ids
// are unique, so the map lookup agrees with a first-wins scan in registry order.
func (r *Registry) MatchExternalID(id string) (domain.Group, bool) {
	g, _, ok := r.MatchRank(id)
	return g, ok
}

// MatchRank is MatchExternalID that also returns the group's position in
// the registry. Lower ranks win ties between matches at the same depth.
func (r *Registry) MatchRank(id string) (domain.Group, int, bool) {
	i, ok := r.byExternalID[id]
	if !ok {
		return domain.Group{}, -1, false
	}
	return r.groups[i], i, true
}

// GroupsWithExternalID returns (id, externalId) pairs in registry order.
func (r *Registry) GroupsWithExternalID() []ExternalRef {
	out := make([]ExternalRef, len(r.external))
	copy(out, r.external)
	return out
}

// Groups returns all groups in registry order.
func (r *Registry) Groups() []domain.Group {
	out := make([]domain.Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// IDs returns all group ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.groups))
	for i, g := range r.groups {
		ids[i] = g.ID
	}
	return ids
}

// Fallback returns the universal fallback group.
func (r *Registry) Fallback() domain.Group { return r.groups[r.fallback] }
