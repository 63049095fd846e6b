package graphql

import (
	"github.com/graphql-go/graphql"
)

// Object types are built once and shared by every schema.
var (
	positionType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Position",
		Fields: graphql.Fields{
			"x": &graphql.Field{Type: graphql.Float},
			"y": &graphql.Field{Type: graphql.Float},
			"z": &graphql.Field{Type: graphql.Float},
		},
	})

	spaceType = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Space",
		Description: "A room with its current noise verdict",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"position":  &graphql.Field{Type: positionType},
			"activity":  &graphql.Field{Type: graphql.String},
			"threshold": &graphql.Field{Type: graphql.Float, Description: "Null when unlimited"},
			"noise":     &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"habitable": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"degree":    &graphql.Field{Type: graphql.Int},
		},
	})

	materialType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Material",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"absorption500":  &graphql.Field{Type: graphql.Float},
			"absorption2000": &graphql.Field{Type: graphql.Float},
		},
	})

	noiseSourceType = graphql.NewObject(graphql.ObjectConfig{
		Name: "NoiseSource",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"frequency": &graphql.Field{Type: graphql.Int},
			"intensity": &graphql.Field{Type: graphql.Float},
		},
	})

	wallType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Wall",
		Fields: graphql.Fields{
			"a":        &graphql.Field{Type: graphql.String},
			"b":        &graphql.Field{Type: graphql.String},
			"material": &graphql.Field{Type: graphql.String},
		},
	})

	warningType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Warning",
		Fields: graphql.Fields{
			"kind":     &graphql.Field{Type: graphql.String},
			"spaceId":  &graphql.Field{Type: graphql.String},
			"wall":     &graphql.Field{Type: graphql.String},
			"material": &graphql.Field{Type: graphql.String},
			"source":   &graphql.Field{Type: graphql.String},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})

	evaluationType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Evaluation",
		Fields: graphql.Fields{
			"building":     &graphql.Field{Type: graphql.String},
			"spaces":       &graphql.Field{Type: graphql.NewList(spaceType)},
			"warnings":     &graphql.Field{Type: graphql.NewList(warningType)},
			"habitable":    &graphql.Field{Type: graphql.Int},
			"allHabitable": &graphql.Field{Type: graphql.Boolean},
			"failing":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	assignmentType = graphql.NewObject(graphql.ObjectConfig{
		Name: "ColorAssignment",
		Fields: graphql.Fields{
			"space": &graphql.Field{Type: graphql.String},
			"color": &graphql.Field{Type: graphql.String},
		},
	})

	coloringType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Coloring",
		Fields: graphql.Fields{
			"assignments": &graphql.Field{Type: graphql.NewList(assignmentType)},
			"colorsUsed":  &graphql.Field{Type: graphql.Int},
		},
	})

	violationType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Violation",
		Fields: graphql.Fields{
			"type":       &graphql.Field{Type: graphql.String},
			"severity":   &graphql.Field{Type: graphql.String},
			"spaceId":    &graphql.Field{Type: graphql.String},
			"constraint": &graphql.Field{Type: graphql.String},
			"message":    &graphql.Field{Type: graphql.String},
		},
	})

	checkType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CheckResult",
		Fields: graphql.Fields{
			"valid":      &graphql.Field{Type: graphql.Boolean},
			"violations": &graphql.Field{Type: graphql.NewList(violationType)},
		},
	})

	wallChangeType = graphql.NewObject(graphql.ObjectConfig{
		Name: "WallChange",
		Fields: graphql.Fields{
			"wall":   &graphql.Field{Type: graphql.String},
			"before": &graphql.Field{Type: graphql.String},
			"after":  &graphql.Field{Type: graphql.String},
		},
	})

	spaceRepairType = graphql.NewObject(graphql.ObjectConfig{
		Name: "SpaceRepair",
		Fields: graphql.Fields{
			"spaceId":         &graphql.Field{Type: graphql.String},
			"phase":           &graphql.Field{Type: graphql.String},
			"candidatesTried": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"material":        &graphql.Field{Type: graphql.String},
			"wallChanges":     &graphql.Field{Type: graphql.NewList(wallChangeType)},
			"activityBefore":  &graphql.Field{Type: graphql.String},
			"activityAfter":   &graphql.Field{Type: graphql.String},
			"thresholdBefore": &graphql.Field{Type: graphql.Float},
			"thresholdAfter":  &graphql.Field{Type: graphql.Float},
			"noiseBefore":     &graphql.Field{Type: graphql.Float},
			"noiseAfter":      &graphql.Field{Type: graphql.Float},
		},
	})

	repairReportType = graphql.NewObject(graphql.ObjectConfig{
		Name: "RepairReport",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.ID},
			"changed":    &graphql.Field{Type: graphql.Boolean},
			"message":    &graphql.Field{Type: graphql.String},
			"seed":       &graphql.Field{Type: graphql.String, Description: "Shuffle seed, decimal"},
			"durationMs": &graphql.Field{Type: graphql.Float},
			"spaces":     &graphql.Field{Type: graphql.NewList(spaceRepairType)},
		},
	})
)
