// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Groups []yamlGroup `yaml:"groups"`
}

type yamlGroup struct {
	ID        string     `yaml:"id"`
	DependsOn []string   `yaml:"depends_on"`
	Cases     []yamlCase `yaml:"cases"`
}

type yamlCase struct {
	ID        string            `yaml:"id"`
	Run       string            `yaml:"run"`
	Command   string            `yaml:"command"`
	DependsOn []string          `yaml:"depends_on"`
	Args      map[string]string `yaml:"args"`
}

// parseYAML decodes a YAML job file. Unknown keys are rejected.
func parseYAML(path string, src []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var root yamlFile
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	doc := &Document{}
	for _, g := range root.Groups {
		if g.ID == "" {
			return nil, fmt.Errorf("%s: group without id", path)
		}
		gs := &GroupSpec{ID: g.ID, DependsOn: g.DependsOn, Source: path}
		for _, c := range g.Cases {
			if c.ID == "" {
				return nil, fmt.Errorf("%s: case without id in group %q", path, g.ID)
			}
			gs.Cases = append(gs.Cases, &CaseSpec{
				ID:        c.ID,
				Run:       c.Run,
				Command:   c.Command,
				DependsOn: c.DependsOn,
				Args:      c.Args,
			})
		}
		doc.Groups = append(doc.Groups, gs)
	}
	return doc, nil
}
