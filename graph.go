// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

// Graph is the top-level render-graph object: one Builder, one
// ResourceAllocator, one Resources table, and the compiled pass/barrier
// schedule. A caller registers passes with AddGraphicsPass/AddComputePass,
// calls Compile once, then Execute once per frame; Clear tears the whole
// thing down for a full rebuild (e.g. on window resize).
//
// Passes are generic over their payload type, and Go methods cannot
// introduce new type parameters beyond their receiver's — so
// registration is exposed as package-level functions taking *Graph: the
// payload type is known at the call site and erased to the graph.
type Graph struct {
	builder   *Builder
	allocator *ResourceAllocator
	resources *Resources

	passes        []*passRecord
	finalBarriers []ResourceBarrier

	queryHeap    QueryHeapHandle
	hasQueryHeap bool

	frameCount uint32

	globalConstants BufferHandle

	perFrameConstants BufferHandle
	perFrameStride    uint64

	perPassConstants BufferHandle
	perPassStride    uint64

	frameIndex uint64
}

// NewGraph creates an empty graph bound to device. The same device must
// be passed to Compile and Execute across the graph's lifetime.
// frameCount is the number of frames the caller keeps in flight at once;
// the per-pass and per-frame constant ring buffers are sized to
// frameCount slots so a new frame never overwrites a region the GPU may
// still be reading from a prior one. frameCount below 1 is treated as 1.
func NewGraph(device Device, frameCount uint32) *Graph {
	if frameCount < 1 {
		frameCount = 1
	}
	return &Graph{
		builder:    NewBuilder(),
		allocator:  NewResourceAllocator(device),
		resources:  NewResources(device),
		frameCount: frameCount,
	}
}

// Builder exposes the graph's resource builder, mainly for tests that
// want to inspect declared descriptions after setup closures have run.
func (g *Graph) Builder() *Builder { return g.builder }

// Resources exposes the graph's compiled resource table, for callers
// that need to look up a handle outside of a pass's own exec closure
// (e.g. readback after Execute) and for tests.
func (g *Graph) Resources() *Resources { return g.resources }

// FinalBarriers exposes the barriers Compile computed to restore each
// created (or imported) resource to the state its creating pass used it
// in, mainly for tests.
func (g *Graph) FinalBarriers() []ResourceBarrier { return g.finalBarriers }

func addPass[T any](g *Graph, name string, kind PassKind, setup SetupFn[T], exec ExecFn[T]) *Pass[T] {
	rec := newPassRecord(len(g.passes), name, kind)
	g.passes = append(g.passes, rec)

	data := new(T)
	pass := &Pass[T]{record: rec, Data: data}

	g.builder.beginPass(rec)
	setup(g.builder, pass, data)
	g.builder.endPass()

	rec.execute = func(res *Resources, cmd CommandList) { exec(data, res, cmd) }
	return pass
}

// AddGraphicsPass registers a graphics pass: setup runs immediately
// against the builder to declare resource usage; exec is deferred until
// Execute replays the compiled schedule.
func AddGraphicsPass[T any](g *Graph, name string, setup SetupFn[T], exec ExecFn[T]) *Pass[T] {
	return addPass(g, name, PassKindGraphics, setup, exec)
}

// AddComputePass registers a compute pass.
func AddComputePass[T any](g *Graph, name string, setup SetupFn[T], exec ExecFn[T]) *Pass[T] {
	return addPass(g, name, PassKindCompute, setup, exec)
}

func nonImportedDescs(descs []ResourceDesc) []ResourceDesc {
	out := make([]ResourceDesc, 0, len(descs))
	for _, d := range descs {
		if !d.isImported() {
			out = append(out, d)
		}
	}
	return out
}

// Compile validates the declared graph, allocates backing storage and
// concrete resources/views, synthesizes barriers, and sizes the constant
// and timestamp-query buffers for this frame. It returns false (after
// logging) on a validation or device failure; Execute must not be called
// for a frame Compile rejected.
//
// globalConstants, when non-empty, is uploaded once per compile into a
// small persistent ring buffer bound at CBV slot 0. frameConstantsSize is
// the per-frame byte size Execute will upload every frame; the per-frame
// ring buffer is sized frameConstantsSize * frameCount.
//
// Compile resets the frame counter, so the very next Execute call is
// frame 0 for barrier-skip purposes even across a Clear+Compile
// recompile.
func (g *Graph) Compile(device Device, globalConstants []byte, frameConstantsSize uint64) bool {
	g.frameIndex = 0

	for _, p := range g.passes {
		for _, rv := range p.read {
			readResource := g.builder.views[rv].Resource
			for _, wv := range p.written {
				if g.builder.views[wv].Resource == readResource {
					err := &ValidationError{Pass: p.name, Resource: g.builder.descs[readResource].label(), Message: ErrViewReadAndWritten.Error()}
					Logger().Warn("rendergraph: compile validation failed", "error", err.Error())
					return false
				}
			}
		}
	}

	info := device.ResourceAllocationInfo(nonImportedDescs(g.builder.descs))
	if info.Size > g.allocator.Size() {
		if err := g.allocator.Reserve(info.Size, info.Alignment); err != nil {
			Logger().Error("rendergraph: compile backing allocation failed", "error", err.Error())
			return false
		}
	} else {
		g.allocator.Clear()
	}

	if err := g.resources.Compile(g.allocator, g.builder); err != nil {
		Logger().Error("rendergraph: compile resource creation failed", "error", err.Error())
		return false
	}

	nodes := buildDependencyGraph(g.builder, g.passes)
	g.finalBarriers = synthesizeBarriers(g.passes, nodes)

	if err := g.compileConstants(device, globalConstants, frameConstantsSize); err != nil {
		Logger().Error("rendergraph: compile constants allocation failed", "error", err.Error())
		return false
	}

	if err := g.compileQueryHeap(device); err != nil {
		Logger().Error("rendergraph: compile query heap allocation failed", "error", err.Error())
		return false
	}

	return true
}

func (g *Graph) compileConstants(device Device, globalConstants []byte, frameConstantsSize uint64) error {
	var perPassSize uint64
	for _, p := range g.passes {
		perPassSize += p.reservedConstants
	}
	g.perPassStride = perPassSize
	perPassTotal := perPassSize * uint64(g.frameCount)
	if perPassTotal > 0 && g.perPassConstants.IsZero() {
		h, err := device.CreateRingBuffer(perPassTotal)
		if err != nil {
			return &AllocationError{Op: "create_ring_buffer(per_pass)", Size: perPassTotal, Err: err}
		}
		g.perPassConstants = h
	}

	g.perFrameStride = frameConstantsSize
	perFrameTotal := frameConstantsSize * uint64(g.frameCount)
	if perFrameTotal > 0 && g.perFrameConstants.IsZero() {
		h, err := device.CreateRingBuffer(perFrameTotal)
		if err != nil {
			return &AllocationError{Op: "create_ring_buffer(per_frame)", Size: perFrameTotal, Err: err}
		}
		g.perFrameConstants = h
	}

	if len(globalConstants) == 0 {
		return nil
	}
	if g.globalConstants.IsZero() {
		h, err := device.CreateRingBuffer(uint64(len(globalConstants)))
		if err != nil {
			return &AllocationError{Op: "create_ring_buffer(global)", Size: uint64(len(globalConstants)), Err: err}
		}
		g.globalConstants = h
	}
	if err := device.WriteBuffer(g.globalConstants, 0, globalConstants); err != nil {
		return &AllocationError{Op: "write_buffer(global)", Size: uint64(len(globalConstants)), Err: err}
	}
	return nil
}

func (g *Graph) compileQueryHeap(device Device) error {
	if g.hasQueryHeap {
		device.ReleaseQueryHeap(g.queryHeap)
		g.hasQueryHeap = false
	}
	if len(g.passes) == 0 {
		return nil
	}
	h, err := device.CreateQueryHeap(uint32(2 * len(g.passes)))
	if err != nil {
		return &AllocationError{Op: "create_query_heap", Size: uint64(2 * len(g.passes)), Err: err}
	}
	g.queryHeap = h
	g.hasQueryHeap = true
	return nil
}

// Execute replays the compiled schedule: bind defaults and the global/
// per-frame/per-pass constant buffers, then for each pass run its entry
// barriers, bind its render targets, invoke its recorded closure, flush
// its exit barriers, and rebind defaults if the pass marked itself
// external. Final barriers restoring created resources to the state
// their creating pass used them in are flushed after the last pass, skipped on the very first frame
// after Compile since there is no prior-frame state to restore from.
//
// frameConstants is this frame's per-frame constant data (camera/view
// data and the like); it is written into this frame's slot of the
// per-frame ring buffer before binding, so callers pass fresh data every
// call. It is ignored if Compile was given a zero frameConstantsSize.
func (g *Graph) Execute(device Device, cmd CommandList, frameConstants []byte) {
	slot := uint64(g.frameIndex % uint64(g.frameCount))

	cmd.BindDefaults()
	if !g.globalConstants.IsZero() {
		cmd.BindConstantBuffer(0, g.globalConstants, 0)
	}
	if !g.perFrameConstants.IsZero() {
		offset := slot * g.perFrameStride
		if len(frameConstants) > 0 {
			if err := device.WriteBuffer(g.perFrameConstants, offset, frameConstants); err != nil {
				Logger().Error("rendergraph: execute per-frame constants write failed", "error", err.Error())
			}
		}
		cmd.BindConstantBuffer(1, g.perFrameConstants, offset)
	}
	if !g.perPassConstants.IsZero() {
		cmd.BindConstantBuffer(2, g.perPassConstants, slot*g.perPassStride)
	}

	for i, p := range g.passes {
		if g.hasQueryHeap {
			cmd.BeginQuery(g.queryHeap, uint32(2*i))
		}

		if len(p.entryBarriers) > 0 {
			cmd.ResourceBarrier(p.entryBarriers)
		}

		if p.kind == PassKindGraphics && (len(p.renderTargetViews) > 0 || p.hasDepthStencil) {
			colors := make([]TextureHandle, len(p.renderTargetViews))
			for ci, v := range p.renderTargetViews {
				colors[ci] = g.resources.GetTextureView(v)
			}
			var depth TextureHandle
			if p.hasDepthStencil {
				depth = g.resources.GetTextureView(p.depthStencilView)
			}
			cmd.SetRenderTargets(colors, depth, p.hasDepthStencil)
		}

		p.execute(g.resources, cmd)

		if len(p.exitBarriers) > 0 {
			cmd.ResourceBarrier(p.exitBarriers)
		}

		if p.external {
			cmd.BindDefaults()
		}

		if g.hasQueryHeap {
			cmd.EndQuery(g.queryHeap, uint32(2*i+1))
		}
	}

	if g.frameIndex > 0 && len(g.finalBarriers) > 0 {
		cmd.ResourceBarrier(g.finalBarriers)
	}
	g.frameIndex++
}

// Clear tears the graph down: releases the query heap, the constant
// ring buffers, and the resource table, drops the pass list and
// final-barrier list, and resets the builder, leaving the allocator's
// backing allocation intact. The owner calls this once a frame set is
// done with before re-registering the next set of passes and calling
// Compile again; Compile resets the frame counter on the following call,
// so the exact point at which it's zeroed between the two doesn't
// matter.
func (g *Graph) Clear(device Device) {
	if g.hasQueryHeap {
		device.ReleaseQueryHeap(g.queryHeap)
		g.hasQueryHeap = false
	}
	if !g.perPassConstants.IsZero() {
		device.ReleaseRingBuffer(g.perPassConstants)
		g.perPassConstants = BufferHandle{}
		g.perPassStride = 0
	}
	if !g.perFrameConstants.IsZero() {
		device.ReleaseRingBuffer(g.perFrameConstants)
		g.perFrameConstants = BufferHandle{}
		g.perFrameStride = 0
	}
	if !g.globalConstants.IsZero() {
		device.ReleaseRingBuffer(g.globalConstants)
		g.globalConstants = BufferHandle{}
	}
	g.resources.Clear()
	g.passes = g.passes[:0]
	g.finalBarriers = nil
	g.builder.Clear()
}
