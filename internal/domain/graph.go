package domain

// GraphEntity is the set of typed edges fetched for one knowledge-graph node.
// It is produced fresh per fetch; an entity with no edges is a dead end, not
// an error.
type GraphEntity struct {
	ID string
	// ParentID is the first parent-taxon edge, empty when absent.
	ParentID string
	// ConceptualIDs holds instance-of edges followed by subclass-of edges.
	ConceptualIDs []string
	// RelatedNameIDs holds "taxon known by this common name" edges.
	RelatedNameIDs []string
}

// IsEmpty reports whether the entity carries no traversable edges.
func (e GraphEntity) IsEmpty() bool {
	return e.ParentID == "" && len(e.ConceptualIDs) == 0 && len(e.RelatedNameIDs) == 0
}
