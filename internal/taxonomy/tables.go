package taxonomy

import "github.com/heartmarshall/wikinaturalist-backend/internal/domain"

// overrides maps an entity to a substitute entity whose ancestry is known to be
// complete. Domesticated variants are modelled in the graph without a direct
// parent-taxon edge, so traversal is pointed at the wild family instead.
var overrides = map[string]string{
	"Q144": "Q25324", // Canis lupus familiaris -> Canidae
	"Q146": "Q25265", // Felis catus -> Felidae
}

// consolidation folds sibling groups into the broader group reported by the
// graph resolver. Groups absent from the table report themselves.
var consolidation = map[string]string{
	domain.GroupGrass: domain.GroupPlant,
	domain.GroupTree:  domain.GroupPlant,
}

// Override returns the substitute entity for id, if one is defined.
func Override(id string) (string, bool) {
	mapped, ok := overrides[id]
	return mapped, ok
}

// Consolidate returns the group reported for a matched group id.
func Consolidate(groupID string) string {
	if reported, ok := consolidation[groupID]; ok {
		return reported
	}
	return groupID
}
