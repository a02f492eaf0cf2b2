// Package yamlcfg is the YAML implementation of the
// config.ExecutionConfigLoader interface. Execution configs are the user's
// side of the contract: which transform to run for which stage, with which
// parameter overrides.
package yamlcfg

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
)

// supportedVersion is the only execution config document version understood
// by this loader.
const supportedVersion = 1

type document struct {
	Version   int `yaml:"version"`
	Meta      meta `yaml:"meta"`
	Execution struct {
		Stages []stageSelection `yaml:"stages"`
	} `yaml:"execution"`
}

type meta struct {
	ConfigName  string `yaml:"config_name"`
	Description string `yaml:"description"`
	BaseSpec    string `yaml:"base_spec"`
}

type stageSelection struct {
	StageID  string `yaml:"stage_id"`
	Selected []struct {
		TransformID string         `yaml:"transform_id"`
		Params      map[string]any `yaml:"params"`
	} `yaml:"selected"`
}

// Loader reads YAML execution config documents.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// LoadExecutionConfig parses one execution config file. The nested
// per-stage selection lists are flattened into the ordered selection
// sequence the planner consumes; document order is preserved.
func (l *Loader) LoadExecutionConfig(ctx context.Context, path string) (*config.ExecutionConfig, error) {
	logger := ctxlog.FromContext(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read execution config %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse execution config %s: %w", path, err)
	}
	if doc.Version != supportedVersion {
		return nil, fmt.Errorf("execution config %s: unsupported version %d (want %d)",
			path, doc.Version, supportedVersion)
	}

	cfg := &config.ExecutionConfig{
		Name:        doc.Meta.ConfigName,
		Description: doc.Meta.Description,
		BaseSpec:    doc.Meta.BaseSpec,
	}
	for _, stage := range doc.Execution.Stages {
		if stage.StageID == "" {
			return nil, fmt.Errorf("execution config %s: stage entry without stage_id", path)
		}
		for _, sel := range stage.Selected {
			if sel.TransformID == "" {
				return nil, fmt.Errorf("execution config %s: stage '%s': selection without transform_id",
					path, stage.StageID)
			}
			cfg.Selections = append(cfg.Selections, config.Selection{
				StageID:     stage.StageID,
				TransformID: sel.TransformID,
				Overrides:   sel.Params,
			})
		}
	}

	logger.Debug("Execution config loaded.",
		"path", path, "name", cfg.Name, "selections", len(cfg.Selections))
	return cfg, nil
}
