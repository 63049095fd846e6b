package graphql

import (
	"fmt"

	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
	"github.com/graphql-go/graphql"
)

// NewSchema builds the query and mutation schema over an engine.
func NewSchema(e *habitat.Engine) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"building": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return e.Name(), nil
				},
			},
			"spaces": &graphql.Field{
				Type: graphql.NewList(spaceType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return spacesToList(e.ListSpaces()), nil
				},
			},
			"space": &graphql.Field{
				Type: spaceType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					v, err := e.Space(id)
					if err != nil {
						return nil, err
					}
					return spaceToMap(v), nil
				},
			},
			"materials": &graphql.Field{
				Type: graphql.NewList(materialType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					snap := e.Snapshot()
					out := make([]any, 0, len(snap.Materials))
					for _, m := range snap.Materials {
						out = append(out, materialToMap(m))
					}
					return out, nil
				},
			},
			"noiseSources": &graphql.Field{
				Type: graphql.NewList(noiseSourceType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					snap := e.Snapshot()
					out := make([]any, 0, len(snap.NoiseSources))
					for _, s := range snap.NoiseSources {
						out = append(out, sourceToMap(s))
					}
					return out, nil
				},
			},
			"walls": &graphql.Field{
				Type: graphql.NewList(wallType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					snap := e.Snapshot()
					out := make([]any, 0, len(snap.Walls))
					for _, w := range snap.Walls {
						out = append(out, wallToMap(w))
					}
					return out, nil
				},
			},
			"evaluation": &graphql.Field{
				Type: evaluationType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return evaluationToMap(e.Evaluate()), nil
				},
			},
			"check": &graphql.Field{
				Type: checkType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					res, err := e.Check()
					if err != nil {
						return nil, err
					}
					return checkToMap(res), nil
				},
			},
			"coloring": &graphql.Field{
				Type: coloringType,
				Args: graphql.FieldConfigArgument{
					"palette": &graphql.ArgumentConfig{
						Type:        graphql.NewList(graphql.NewNonNull(graphql.String)),
						Description: "Colour names; omitted means the configured palette",
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					c, err := e.ColorGraph(stringList(p.Args["palette"]))
					if err != nil {
						return nil, err
					}
					return coloringToMap(c), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"repair": &graphql.Field{
				Type: repairReportType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, err := e.Repair()
					if err != nil {
						return nil, err
					}
					return reportToMap(r), nil
				},
			},
			"reset": &graphql.Field{
				Type: evaluationType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return evaluationToMap(e.Reset()), nil
				},
			},
			// Numbers arrive as strings so malformed input is rejected by
			// the same validation as the CLI and REST surfaces.
			"updateNoiseSource": &graphql.Field{
				Type: evaluationType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"frequency": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"intensity": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					in := validation.NoiseSourceInput{}
					in.ID, _ = p.Args["id"].(string)
					in.Frequency, _ = p.Args["frequency"].(string)
					in.Intensity, _ = p.Args["intensity"].(string)
					ev, err := e.UpdateNoiseSource(in)
					if err != nil {
						return nil, err
					}
					return evaluationToMap(ev), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
