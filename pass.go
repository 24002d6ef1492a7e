// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "github.com/gogpu/gputypes"

// PassKind discriminates graphics from compute passes.
type PassKind uint8

const (
	PassKindGraphics PassKind = iota
	PassKindCompute
)

// SetupFn is invoked once during Graph registration to let a pass declare
// its resource needs against the Builder.
type SetupFn[T any] func(b *Builder, p *Pass[T], data *T)

// ExecFn is invoked once per frame with the typed payload the setup
// closure populated, the compiled Resources table, and the command list
// to record into.
type ExecFn[T any] func(data *T, res *Resources, cmd CommandList)

// passRecord is the type-erased bookkeeping the graph keeps per pass.
// Downstream passes never see this directly; they hold a typed *Pass[T]
// handle whose payload is allocated per pass at registration and
// captured by the record's execute closure.
type passRecord struct {
	index int
	name  string
	kind  PassKind

	created []ResourceID
	read    []ResourceViewID
	written []ResourceViewID

	renderTargetFormats []gputypes.TextureFormat
	renderTargetViews   []ResourceViewID
	hasDepthStencil     bool
	depthStencilFormat  gputypes.TextureFormat
	depthStencilView    ResourceViewID

	reservedConstants uint64
	exitBarriers      []ResourceBarrier
	entryBarriers     []ResourceBarrier
	external          bool

	execute func(res *Resources, cmd CommandList)
}

func newPassRecord(index int, name string, kind PassKind) *passRecord {
	return &passRecord{index: index, name: name, kind: kind}
}

func (r *passRecord) isCreated(id ResourceID) bool {
	for _, c := range r.created {
		if c == id {
			return true
		}
	}
	return false
}

func (r *passRecord) isRead(v ResourceViewID) bool {
	for _, x := range r.read {
		if x == v {
			return true
		}
	}
	return false
}

func (r *passRecord) isWritten(v ResourceViewID) bool {
	for _, x := range r.written {
		if x == v {
			return true
		}
	}
	return false
}

// Pass is the typed handle returned from AddGraphicsPass /
// AddComputePass. Setup closures use it to reserve constant memory and
// attach manual barriers; downstream passes read the typed payload to
// find resource ids an earlier pass produced.
type Pass[T any] struct {
	record *passRecord
	Data   *T
}

// Name returns the pass's registration name, used in diagnostic messages
// and GraphViz labels.
func (p *Pass[T]) Name() string { return p.record.name }

// Kind returns whether this is a graphics or compute pass.
func (p *Pass[T]) Kind() PassKind { return p.record.kind }

// ReserveMemory grows the per-pass ring-buffer budget by bytes.
func (p *Pass[T]) ReserveMemory(bytes uint64) {
	p.record.reservedConstants += bytes
}

// AddExitBarrier attaches a manual barrier to this pass's exit list, for
// passes that drive external native code the graph cannot infer
// transitions for.
func (p *Pass[T]) AddExitBarrier(b ResourceBarrier) {
	p.record.exitBarriers = append(p.record.exitBarriers, b)
}

// AddEntryBarrier attaches a manual barrier run before this pass
// executes.
func (p *Pass[T]) AddEntryBarrier(b ResourceBarrier) {
	p.record.entryBarriers = append(p.record.entryBarriers, b)
}

// SetExternal marks the pass as owning custom state the graph doesn't
// track (e.g. an upscaler), forcing a defaults re-bind afterward.
func (p *Pass[T]) SetExternal(external bool) {
	p.record.external = external
}
