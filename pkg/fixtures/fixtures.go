// Package fixtures embeds sample building documents.
package fixtures

import (
	_ "embed"

	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/config"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
)

// DemoYAML is the seven-room sample building.
//
//go:embed demo.yaml
var DemoYAML []byte

// Demo parses the sample document.
func Demo() (*config.Config, error) {
	return config.Parse(DemoYAML)
}

// DemoBuilding parses and builds the sample building.
func DemoBuilding(logger logging.Logger) (*building.Building, *config.Config, error) {
	cfg, err := Demo()
	if err != nil {
		return nil, nil, err
	}
	b, err := cfg.Build(logger)
	if err != nil {
		return nil, nil, err
	}
	return b, cfg, nil
}

// LoadOrDemo loads path, or the sample document when path is empty.
func LoadOrDemo(path string) (*config.Config, error) {
	if path == "" {
		return Demo()
	}
	return config.Load(path)
}
