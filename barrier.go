// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

// edge is one step in a resource's per-subresource state timeline: a
// subresource index, the pass that touches it, and the state it's
// touched in.
type edge struct {
	subresource uint32
	pass        int
	state       GPUState
}

// graphNode is the per-resource dependency-graph node built during
// compile: one node per resource id, an ordered edge list, and a
// subresource count used to size the tracked-state vector.
type graphNode struct {
	kind             ResourceKind
	subresourceCount uint32
	edges            []edge
}

// buildDependencyGraph walks passes in registration order and, for every
// written view then every read view of a pass, appends one edge per
// covered subresource to that resource's node.
func buildDependencyGraph(b *Builder, passes []*passRecord) []*graphNode {
	nodes := make([]*graphNode, len(b.descs))

	nodeFor := func(id ResourceID) *graphNode {
		if nodes[id] == nil {
			nodes[id] = &graphNode{
				kind:             b.descs[id].Kind,
				subresourceCount: b.descs[id].subresourceCount(),
			}
		}
		return nodes[id]
	}

	appendEdges := func(viewID ResourceViewID, passIndex int) {
		v := &b.views[viewID]
		desc := &b.descs[v.Resource]
		node := nodeFor(v.Resource)

		var state GPUState
		var base, count uint32
		switch desc.Kind {
		case ResourceKindBuffer:
			state = bufferUsageToState(v.BufferUsage)
			base, count = 0, 1
		case ResourceKindTexture:
			state = textureUsageToState(v.TextureUsage)
			base, count = v.BaseMip, v.MipCount
		}
		for s := base; s < base+count; s++ {
			node.edges = append(node.edges, edge{subresource: s, pass: passIndex, state: state})
		}
	}

	for passIndex, p := range passes {
		for _, v := range p.written {
			appendEdges(v, passIndex)
		}
		for _, v := range p.read {
			appendEdges(v, passIndex)
		}
	}
	return nodes
}

// synthesizeBarriers replays each node's edges in order against a
// per-subresource tracked-state vector initialized uniformly to the
// first edge's state, rather than lazily on each subresource's first
// touch. That uniform seeding is what makes a later pass's first UAV
// write onto a previously untouched subresource still compare against an
// inherited UAV state and draw a barrier, matching a mip-chain
// downsample's expected barrier placement at every level. "Previous
// pass" advances only when the pass index changes between consecutive
// edges in the combined list.
func synthesizeBarriers(passes []*passRecord, nodes []*graphNode) []ResourceBarrier {
	var final []ResourceBarrier

	for resID, node := range nodes {
		if node == nil || len(node.edges) < 2 {
			continue
		}

		tracked := make([]GPUState, node.subresourceCount)
		for i := range tracked {
			tracked[i] = node.edges[0].state
		}

		prevPassIndex := node.edges[0].pass
		uavAdded := false

		for i := 1; i < len(node.edges); i++ {
			prevEdge := node.edges[i-1]
			curr := node.edges[i]

			if curr.pass != prevEdge.pass {
				prevPassIndex = prevEdge.pass
				uavAdded = false
			}

			old := tracked[curr.subresource]
			newState := curr.state

			if old.IsUnorderedAccess() && newState.IsUnorderedAccess() && !uavAdded {
				passes[prevPassIndex].exitBarriers = append(passes[prevPassIndex].exitBarriers, ResourceBarrier{
					Resource: ResourceID(resID),
					Kind:     node.kind,
					IsUAV:    true,
				})
				uavAdded = true
			}

			if old == newState {
				continue
			}

			passes[prevPassIndex].exitBarriers = append(passes[prevPassIndex].exitBarriers, ResourceBarrier{
				Resource:    ResourceID(resID),
				Kind:        node.kind,
				Subresource: curr.subresource,
				Old:         old,
				New:         newState,
			})
			tracked[curr.subresource] = newState
		}

		for _, e := range node.edges {
			pass := passes[e.pass]
			if !pass.isCreated(ResourceID(resID)) {
				continue
			}
			old := tracked[e.subresource]
			if old == e.state {
				continue
			}
			final = append(final, ResourceBarrier{
				Resource:    ResourceID(resID),
				Kind:        node.kind,
				Subresource: e.subresource,
				Old:         old,
				New:         e.state,
			})
		}
	}

	return final
}
