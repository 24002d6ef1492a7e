// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import (
	"fmt"
	"strings"
)

// ToGraphviz renders the declared (pre- or post-compile) graph as a DOT
// digraph: one node per pass, one node per resource, a green edge for
// every read and a red edge for every write. Imported resources are
// grouped with {rank=min} and passes with {rank=same} so the
// source-to-sink flow lays out left to right.
func (g *Graph) ToGraphviz() string {
	var sb strings.Builder
	sb.WriteString("digraph RenderGraph {\n")
	sb.WriteString("  rankdir=LR;\n")

	sb.WriteString("  { rank=same;\n")
	for i, p := range g.passes {
		sb.WriteString(fmt.Sprintf("    pass%d [shape=box,label=%q];\n", i, p.name))
	}
	sb.WriteString("  }\n")

	importedRank := make([]string, 0)
	for id := range g.builder.descs {
		desc := &g.builder.descs[id]
		label := desc.label()
		if label == "" {
			label = fmt.Sprintf("resource%d", id)
		}
		shape := "ellipse"
		if desc.isImported() {
			shape = "doubleoctagon"
			importedRank = append(importedRank, fmt.Sprintf("res%d", id))
		}
		sb.WriteString(fmt.Sprintf("  res%d [shape=%s,label=%q];\n", id, shape, label))
	}
	if len(importedRank) > 0 {
		sb.WriteString("  { rank=min; " + strings.Join(importedRank, "; ") + "; }\n")
	}

	for i, p := range g.passes {
		for _, v := range p.read {
			res := g.builder.views[v].Resource
			sb.WriteString(fmt.Sprintf("  res%d -> pass%d [color=green];\n", res, i))
		}
		for _, v := range p.written {
			res := g.builder.views[v].Resource
			sb.WriteString(fmt.Sprintf("  pass%d -> res%d [color=red];\n", i, res))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
