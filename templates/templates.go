// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package templates

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/store"
)

//go:embed default.yaml
var defaultYAML []byte

// Template is a named, ordered list of stages that jobs can clone.
type Template struct {
	Name   string              `yaml:"name"`
	Stages []models.StageInput `yaml:"stages"`
}

type file struct {
	Templates []Template `yaml:"templates"`
}

// Parse decodes a templates document and validates every entry.
func Parse(data []byte) ([]Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("templates: document is empty")
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("templates: decode: %w", err)
	}

	seen := make(map[string]bool, len(f.Templates))
	for i, t := range f.Templates {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("templates: entry %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("templates: duplicate template %q", name)
		}
		seen[name] = true
		if len(t.Stages) == 0 {
			return nil, fmt.Errorf("templates: %q has no stages", name)
		}
		for j, st := range t.Stages {
			if strings.TrimSpace(st.Name) == "" {
				return nil, fmt.Errorf("templates: %q stage %d has no name", name, j)
			}
		}
		f.Templates[i].Name = name
	}
	return f.Templates, nil
}

// LoadFile reads templates from path.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", path, err)
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Default returns the built-in templates.
func Default() []Template {
	ts, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return ts
}

// Load returns the templates at path, or the built-in set when path is
// empty.
func Load(path string) ([]Template, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Seed creates every template whose name is not already taken by an
// existing template pipeline. It returns how many were created.
func Seed(ctx context.Context, s *store.Store, ts []Template) (int, error) {
	existing, err := s.ListTemplates(ctx)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.Name] = true
	}

	created := 0
	for _, t := range ts {
		if taken[t.Name] {
			continue
		}
		p, err := s.CreatePipeline(ctx, "", t.Name, t.Stages)
		if err != nil {
			return created, fmt.Errorf("templates: seed %q: %w", t.Name, err)
		}
		slog.Info("seeded pipeline template", "name", t.Name, "pipeline_id", p.ID, "stages", len(p.Stages))
		taken[t.Name] = true
		created++
	}
	return created, nil
}
