// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph_test

import (
	"testing"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/fakedevice"
)

// A view whose refined description equals the base resource's
// description must reuse the base handle rather than create (and later
// double-free) a distinct device view.
func TestResourcesCompileDedupesEquivalentView(t *testing.T) {
	device := fakedevice.NewDevice()
	g := rendergraph.NewGraph(device, 1)

	var id rendergraph.ResourceID
	var view rendergraph.ResourceViewID
	rendergraph.AddComputePass(g, "P1", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
		id = b.Create(rendergraph.BufferDesc{Usage: rendergraph.BufferUsageShaderReadOnly})
		view = b.Read(id)
	}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})

	if !g.Compile(device, nil, 0) {
		t.Fatalf("Compile returned false")
	}

	base := g.Resources().GetBuffer(id)
	viewHandle := g.Resources().GetBufferView(view)
	if base != viewHandle {
		t.Fatalf("dedup failed: base=%v view=%v, want identical handles", base, viewHandle)
	}

	g.Clear(device)
	if n := len(device.ReleasedBuffers()); n != 1 {
		t.Fatalf("released %d buffers, want exactly 1 (no double free on a deduped view)", n)
	}
}

// A view with a distinct refined usage gets its own device handle, and
// both the view and the base resource are released exactly once.
func TestResourcesCompileCreatesDistinctView(t *testing.T) {
	device := fakedevice.NewDevice()
	g := rendergraph.NewGraph(device, 1)

	var id rendergraph.ResourceID
	var readView, writeView rendergraph.ResourceViewID
	rendergraph.AddComputePass(g, "P1", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
		id = b.Create(rendergraph.BufferDesc{Usage: rendergraph.BufferUsageShaderReadWrite})
		writeView = b.Write(id)
	}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})
	rendergraph.AddComputePass(g, "P2", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
		readView = b.Read(id)
	}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})

	if !g.Compile(device, nil, 0) {
		t.Fatalf("Compile returned false")
	}

	base := g.Resources().GetBuffer(id)
	w := g.Resources().GetBufferView(writeView)
	r := g.Resources().GetBufferView(readView)
	if w != base {
		t.Fatalf("write view = %v, want it to alias base %v (its usage matches the declared ShaderReadWrite base)", w, base)
	}
	if r == base {
		t.Fatalf("read view unexpectedly aliases base; ShaderReadOnly should differ from ShaderReadWrite")
	}

	g.Clear(device)
	released := device.ReleasedBuffers()
	if len(released) != 2 {
		t.Fatalf("released %d buffers, want 2 (the owned view, then the base)", len(released))
	}
}
