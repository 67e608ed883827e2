// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFile is used to decode the top-level blocks of a job file.
type hclFile struct {
	Groups []*hclGroup `hcl:"group,block"`
}

type hclGroup struct {
	ID        string     `hcl:"id,label"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Cases     []*hclCase `hcl:"case,block"`
}

type hclCase struct {
	ID        string    `hcl:"id,label"`
	Run       string    `hcl:"run,optional"`
	Command   string    `hcl:"command,optional"`
	DependsOn []string  `hcl:"depends_on,optional"`
	Args      cty.Value `hcl:"args,optional"`
}

// parseHCL decodes an HCL job file. parser caches files across calls.
func parseHCL(parser *hclparse.Parser, path string, src []byte) (*Document, error) {
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	doc := &Document{}
	for _, g := range root.Groups {
		gs := &GroupSpec{ID: g.ID, DependsOn: g.DependsOn, Source: path}
		for _, c := range g.Cases {
			args, err := argsFromCty(c.Args)
			if err != nil {
				return nil, fmt.Errorf("%s: case %q of group %q: invalid args: %w", path, c.ID, g.ID, err)
			}
			gs.Cases = append(gs.Cases, &CaseSpec{
				ID:        c.ID,
				Run:       c.Run,
				Command:   c.Command,
				DependsOn: c.DependsOn,
				Args:      args,
			})
		}
		doc.Groups = append(doc.Groups, gs)
	}
	return doc, nil
}

// argsFromCty flattens an args object into strings. Numbers and bools are
// converted the way HCL converts them to strings.
func argsFromCty(v cty.Value) (map[string]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("args must be known values")
	}
	converted, err := convert.Convert(v, cty.Map(cty.String))
	if err != nil {
		return nil, err
	}
	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}

