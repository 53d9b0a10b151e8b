package layout

import (
	"testing"

	"github.com/nimblefmt/nimble/schema"
	"github.com/stretchr/testify/require"
)

func buildFlatMapSchema() *schema.Node {
	fm := schema.NewFlatMap("features")
	fm.AddFeature("f1", schema.NewScalar("features.f1", schema.ScalarInt32))
	fm.AddFeature("f2", schema.NewScalar("features.f2", schema.ScalarInt32))
	fm.AddFeature("f3", schema.NewScalar("features.f3", schema.ScalarInt32))

	root := schema.NewRow("root",
		schema.NewScalar("id", schema.ScalarInt64),
		fm,
	)
	schema.Allocate(root)

	return root
}

func TestPlan_FlatMapOrdering(t *testing.T) {
	root := buildFlatMapSchema()

	ids, err := Plan(root, []FeatureOrdering{
		{Path: []string{"features"}, Keys: []string{"f2", "f1"}},
	})
	require.NoError(t, err)

	fm, _ := root.FindChild("features")
	idCol, _ := root.FindChild("id")

	expected := []schema.StreamID{
		root.NullsID,
		fm.NullsID,
		fm.InMapIDs[1], fm.FeatureNodes[1].ValuesID, // f2
		fm.InMapIDs[0], fm.FeatureNodes[0].ValuesID, // f1
		idCol.ValuesID,
		fm.InMapIDs[2], fm.FeatureNodes[2].ValuesID, // f3, remaining
	}
	require.Equal(t, expected, ids)
}

func TestPlan_AbsentFeatureSkipped(t *testing.T) {
	root := buildFlatMapSchema()

	ids, err := Plan(root, []FeatureOrdering{
		{Path: []string{"features"}, Keys: []string{"missing", "f1"}},
	})
	require.NoError(t, err)
	fm, _ := root.FindChild("features")
	require.Contains(t, ids, fm.FeatureNodes[0].ValuesID)
}

func TestPlan_NonFlatMapColumn(t *testing.T) {
	root := buildFlatMapSchema()
	_, err := Plan(root, []FeatureOrdering{{Path: []string{"id"}, Keys: []string{"x"}}})
	require.Error(t, err)
}

func TestPlan_NoOrderings(t *testing.T) {
	root := buildFlatMapSchema()
	ids, err := Plan(root, nil)
	require.NoError(t, err)
	require.Equal(t, len(schema.StreamIDs(root)), len(ids))
}
