package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const sampleHex = "65a1b2c3d4e5f60718293a4b"

func sampleID(t *testing.T) bson.ObjectID {
	t.Helper()
	id, err := bson.ObjectIDFromHex(sampleHex)
	require.NoError(t, err)
	return id
}

func TestNormalizeIDsTopLevel(t *testing.T) {
	filter := Filter{IDField: sampleHex, "task": "buy milk"}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	assert.Equal(t, sampleID(t), got[IDField])
	assert.Equal(t, "buy milk", got["task"])
}

func TestNormalizeIDsDoesNotMutateInput(t *testing.T) {
	nested := map[string]any{IDField: sampleHex}
	filter := Filter{IDField: sampleHex, "owner": nested}

	_, err := NormalizeIDs(filter)
	require.NoError(t, err)

	assert.Equal(t, sampleHex, filter[IDField])
	assert.Equal(t, sampleHex, nested[IDField])
}

func TestNormalizeIDsEveryDepth(t *testing.T) {
	filter := Filter{
		"a": map[string]any{
			IDField: sampleHex,
			"b": bson.M{
				IDField: sampleHex,
				"c": Document{IDField: sampleHex},
			},
		},
	}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	a := got["a"].(map[string]any)
	b := a["b"].(map[string]any)
	c := b["c"].(map[string]any)
	assert.Equal(t, sampleID(t), a[IDField])
	assert.Equal(t, sampleID(t), b[IDField])
	assert.Equal(t, sampleID(t), c[IDField])
}

func TestNormalizeIDsInsideLogicalOperators(t *testing.T) {
	filter := Filter{
		"$or": []any{
			map[string]any{IDField: sampleHex},
			map[string]any{"task": "x"},
		},
	}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	clauses := got["$or"].([]any)
	assert.Equal(t, sampleID(t), clauses[0].(map[string]any)[IDField])
	assert.Equal(t, "x", clauses[1].(map[string]any)["task"])
}

func TestNormalizeIDsOperatorOperands(t *testing.T) {
	other := bson.NewObjectID()
	filter := Filter{IDField: map[string]any{"$in": []string{sampleHex, other.Hex()}}}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	ops := got[IDField].(map[string]any)
	assert.Equal(t, []any{sampleID(t), other}, ops["$in"])
}

func TestNormalizeIDsKeepsNativeIDs(t *testing.T) {
	id := bson.NewObjectID()

	got, err := NormalizeIDs(Filter{IDField: id})
	require.NoError(t, err)
	assert.Equal(t, id, got[IDField])
}

func TestNormalizeIDsNilFilter(t *testing.T) {
	got, err := NormalizeIDs(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalizeIDsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
	}{
		{"not hex", Filter{IDField: "not-an-object-id"}},
		{"wrong length", Filter{IDField: "abc"}},
		{"nested", Filter{"x": map[string]any{IDField: "zz"}}},
		{"unsupported type", Filter{IDField: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeIDs(tt.filter)
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
}

func TestNormalizeIDsKeepsOrderedDocuments(t *testing.T) {
	filter := Filter{
		"owner": bson.D{
			{Key: "z", Value: 1},
			{Key: IDField, Value: sampleHex},
			{Key: "a", Value: bson.D{{Key: "m", Value: 3}, {Key: IDField, Value: sampleHex}}},
			{Key: "b", Value: 4},
		},
	}

	want := bson.D{
		{Key: "z", Value: 1},
		{Key: IDField, Value: sampleID(t)},
		{Key: "a", Value: bson.D{{Key: "m", Value: 3}, {Key: IDField, Value: sampleID(t)}}},
		{Key: "b", Value: 4},
	}

	for range 20 {
		got, err := NormalizeIDs(filter)
		require.NoError(t, err)

		owner, ok := got["owner"].(bson.D)
		require.True(t, ok, "ordered document became %T", got["owner"])
		assert.Equal(t, want, owner)
	}
}

func TestNormalizeIDsOrderedOperatorOperands(t *testing.T) {
	other := bson.NewObjectID()
	filter := Filter{IDField: bson.D{{Key: "$nin", Value: bson.A{sampleHex}}, {Key: "$ne", Value: other.Hex()}}}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "$nin", Value: []any{sampleID(t)}},
		{Key: "$ne", Value: other},
	}, got[IDField])
}

func TestNormalizeIDsOrderedDocumentsInLists(t *testing.T) {
	filter := Filter{"$or": bson.A{bson.D{{Key: "task", Value: "x"}, {Key: IDField, Value: sampleHex}}}}

	got, err := NormalizeIDs(filter)
	require.NoError(t, err)

	clauses := got["$or"].([]any)
	assert.Equal(t, bson.D{{Key: "task", Value: "x"}, {Key: IDField, Value: sampleID(t)}}, clauses[0])
}
