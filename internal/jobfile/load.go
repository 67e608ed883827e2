// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/fsutil"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Extensions are the job file extensions picked up from a directory.
var Extensions = []string{".hcl", ".yaml", ".yml"}

// Load parses the job file at path, or every job file under it when it is a
// directory, into one document.
func Load(ctx context.Context, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(path, Extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find job files in %s: %w", path, err)
	}
	logger.Debug("Discovered job files.", "count", len(files), "files", files)

	parser := hclparse.NewParser()
	doc := &Document{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read job file: %w", err)
		}

		var part *Document
		switch filepath.Ext(file) {
		case ".hcl":
			part, err = parseHCL(parser, file, src)
		case ".yaml", ".yml":
			part, err = parseYAML(file, src)
		default:
			return nil, fmt.Errorf("unsupported job file %s: want one of %v", file, Extensions)
		}
		if err != nil {
			return nil, err
		}
		doc.Merge(part)
		logger.Debug("Loaded job file.", "file", file, "groups", len(part.Groups))
	}

	logger.Debug("Job files loaded.", "groups", len(doc.Groups))
	return doc, nil
}

// LoadRun loads path and binds it against reg.
func LoadRun(ctx context.Context, path string, reg *registry.Registry, runID string) (*model.Run, error) {
	doc, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return Bind(doc, reg, runID)
}
