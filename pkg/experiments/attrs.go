package experiments

import "github.com/nauta/nauta-gui/pkg/utils/sets"

// DiscoverAttributes returns the union of attribute names of entities.
//
// Names are deduplicated, in the order of their first appearance.
func DiscoverAttributes(entities []Entity) []string {
	names := sets.NewOrdered[string]()
	for _, e := range entities {
		for _, n := range e.AttributeNames() {
			names.Add(n)
		}
	}
	return names.Values()
}
