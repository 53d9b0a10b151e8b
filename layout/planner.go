package layout

import (
	"fmt"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
)

// FeatureOrdering names the preferred feature-key order for one flat-map
// column, identified by its dotted path from the schema root.
type FeatureOrdering struct {
	Path    []string
	Keys    []string
}

// Plan returns the stripe's streams in the order §4.5 specifies: the root
// row's nulls stream first, then for each configured flat-map column (in
// config order) its nulls stream followed by each requested feature's
// in-map and value-subtree streams, then every remaining stream in schema
// preorder, each emitted at most once.
func Plan(root *schema.Node, orderings []FeatureOrdering) ([]schema.StreamID, error) {
	if root.Kind != schema.KindRow {
		return nil, fmt.Errorf("%w: layout planner requires a Row schema root", errs.ErrInvalidLayoutRequest)
	}

	var out []schema.StreamID
	placed := make(map[schema.StreamID]bool)
	place := func(id schema.StreamID) {
		if !placed[id] {
			placed[id] = true
			out = append(out, id)
		}
	}

	place(root.NullsID)

	for _, ord := range orderings {
		col, ok := schema.Find(root, ord.Path)
		if !ok {
			return nil, fmt.Errorf("%w: flat-map column %v not found", errs.ErrInvalidLayoutRequest, ord.Path)
		}
		if err := col.RequireFlatMap(); err != nil {
			return nil, err
		}

		place(col.NullsID)
		for _, key := range ord.Keys {
			idx := -1
			for i, k := range col.FeatureKeys {
				if k == key {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue // requested feature absent from the schema: silently skipped
			}
			place(col.InMapIDs[idx])
			for _, id := range schema.StreamIDs(col.FeatureNodes[idx]) {
				place(id)
			}
		}
	}

	for _, id := range schema.StreamIDs(root) {
		place(id)
	}

	return out, nil
}
