// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/casegrid/internal/model"
)

// Dump writes the sequenced graph in declaration order.
func Dump(w io.Writer, run *model.Run) error {
	for _, gn := range run.Groups.Nodes {
		if _, err := fmt.Fprintf(w, "group %s rank=%d%s\n", gn.ID, gn.Rank, deps(gn)); err != nil {
			return err
		}
		for _, cn := range gn.Group.Cases.Nodes {
			fn := cn.Case.FuncName
			if fn == "" {
				fn = "-"
			}
			if _, err := fmt.Fprintf(w, "  case %s rank=%d func=%s%s\n", cn.ID, cn.Rank, fn, deps(cn)); err != nil {
				return err
			}
		}
	}
	return nil
}

func deps(n *model.Node) string {
	if len(n.Deps) == 0 {
		return ""
	}
	ids := make([]string, 0, len(n.Deps))
	for _, d := range n.Deps {
		ids = append(ids, d.TargetID)
	}
	return " deps=[" + strings.Join(ids, ",") + "]"
}
