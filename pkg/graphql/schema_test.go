package graphql

import (
	"testing"

	"github.com/dd0wney/cluso-habitat/pkg/fixtures"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoSchema(t *testing.T) (graphql.Schema, *habitat.Engine) {
	t.Helper()
	cfg, err := fixtures.Demo()
	require.NoError(t, err)
	e, err := habitat.NewFromConfig(cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(e.Close)

	schema, err := NewSchema(e)
	require.NoError(t, err)
	return schema, e
}

func mustData(t *testing.T, result *graphql.Result) map[string]any {
	t.Helper()
	require.False(t, result.HasErrors(), "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func TestQuery_Spaces(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`{ spaces { id noise habitable threshold } }`, schema))
	spaces := data["spaces"].([]any)
	require.Len(t, spaces, 7)

	byID := make(map[string]map[string]any)
	for _, s := range spaces {
		m := s.(map[string]any)
		byID[m["id"].(string)] = m
	}
	assert.InDelta(t, 48.6, byID["S"]["noise"], 1e-9)
	assert.Equal(t, false, byID["S"]["habitable"])
	assert.Equal(t, true, byID["H2"]["habitable"])
	assert.InDelta(t, 35.0, byID["S"]["threshold"], 1e-9)
}

func TestQuery_Space(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQueryWithVariables(
		`query($id: ID!) { space(id: $id) { id noise degree position { x y z } } }`,
		schema, map[string]any{"id": "E"}))
	space := data["space"].(map[string]any)
	assert.Equal(t, "E", space["id"])
	assert.InDelta(t, 82.8, space["noise"], 1e-9)
	assert.Equal(t, 4, space["degree"])
	assert.NotNil(t, space["position"])
}

func TestQuery_SpaceNotFound(t *testing.T) {
	schema, _ := newDemoSchema(t)

	result := ExecuteQuery(`{ space(id: "Attic") { id } }`, schema)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "space not found")
}

func TestQuery_Registries(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`{
		building
		materials { id absorption500 absorption2000 }
		noiseSources { id frequency intensity }
		walls { a b material }
	}`, schema))

	assert.NotEmpty(t, data["building"])
	assert.Len(t, data["materials"], 3)
	assert.Len(t, data["noiseSources"], 3)
	assert.Len(t, data["walls"], 8)
	first := data["materials"].([]any)[0].(map[string]any)
	assert.Equal(t, "Brick", first["id"])
}

func TestQuery_Evaluation(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`{ evaluation { habitable allHabitable failing } }`, schema))
	ev := data["evaluation"].(map[string]any)
	assert.Equal(t, 5, ev["habitable"])
	assert.Equal(t, false, ev["allHabitable"])
	assert.ElementsMatch(t, []any{"S", "E"}, ev["failing"])
}

func TestQuery_Check(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`{ check { valid violations { type severity spaceId } } }`, schema))
	check := data["check"].(map[string]any)
	assert.Equal(t, false, check["valid"])
	assert.Len(t, check["violations"], 2)
}

func TestQuery_Coloring(t *testing.T) {
	schema, _ := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`{ coloring { colorsUsed assignments { space color } } }`, schema))
	coloring := data["coloring"].(map[string]any)
	assignments := coloring["assignments"].([]any)
	require.Len(t, assignments, 7)

	first := assignments[0].(map[string]any)
	assert.Equal(t, "E", first["space"])
	assert.Equal(t, "red", first["color"])
}

func TestQuery_ColoringPaletteExhausted(t *testing.T) {
	schema, _ := newDemoSchema(t)

	result := ExecuteQuery(`{ coloring(palette: ["red"]) { colorsUsed } }`, schema)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "palette")
}

func TestMutation_RepairAndReset(t *testing.T) {
	schema, e := newDemoSchema(t)

	data := mustData(t, ExecuteQuery(`mutation { repair { id changed message spaces { spaceId phase } } }`, schema))
	report := data["repair"].(map[string]any)
	assert.Equal(t, true, report["changed"])
	assert.NotEmpty(t, report["id"])
	assert.Len(t, report["spaces"], 2)
	assert.True(t, e.Evaluate().AllHabitable)

	data = mustData(t, ExecuteQuery(`mutation { repair { changed message } }`, schema))
	assert.Equal(t, false, data["repair"].(map[string]any)["changed"])
	assert.Equal(t, "no changes needed", data["repair"].(map[string]any)["message"])

	data = mustData(t, ExecuteQuery(`mutation { reset { allHabitable failing } }`, schema))
	ev := data["reset"].(map[string]any)
	assert.Equal(t, false, ev["allHabitable"])
	assert.ElementsMatch(t, []any{"S", "E"}, ev["failing"])
}

func TestMutation_UpdateNoiseSource(t *testing.T) {
	schema, e := newDemoSchema(t)

	mustData(t, ExecuteQuery(`mutation { updateNoiseSource(id: "Plane", frequency: "500", intensity: "0") { habitable } }`, schema))
	noise, err := e.EvaluateNoise("H2")
	require.NoError(t, err)
	assert.InDelta(t, 5.4, noise, 1e-9)
}

func TestMutation_UpdateNoiseSourceRejectsBadInput(t *testing.T) {
	schema, e := newDemoSchema(t)
	before := e.Snapshot()

	result := ExecuteQuery(`mutation { updateNoiseSource(id: "Plane", frequency: "500", intensity: "loud") { habitable } }`, schema)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "invalid numeric input")
	assert.Equal(t, before.NoiseSources, e.Snapshot().NoiseSources)
}
