// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "github.com/gogpu/gputypes"

// AllocationInfo is the device's answer to a resource-allocation-info
// query: the size and alignment a backing block must have to alias the
// given descriptions.
type AllocationInfo struct {
	Size      uint64
	Alignment uint64
}

// ResourceBarrier is a single state transition or UAV-ordering barrier.
// It is the unit the graph batches into one command-list call per pass
// exit list and per the graph-wide final-barriers list. Buffer and
// texture barriers share one type because a render-graph barrier is
// addressed by ResourceID, not by a backend-specific buffer/texture
// handle pair.
type ResourceBarrier struct {
	Resource    ResourceID
	Kind        ResourceKind
	Subresource uint32 // ignored for UAV barriers

	// IsUAV, when true, is a UAV-ordering barrier (no Old/New needed);
	// otherwise it is a transition barrier with Old != New.
	IsUAV bool
	Old   GPUState
	New   GPUState
}

// ClearValue is the format-specific optimized clear value attached to a
// render-target or depth-stencil texture at creation.
type ClearValue struct {
	Color        gputypes.Color
	Depth        float32
	Stencil      uint8
	HasColor     bool
	HasDepth     bool
}

// Device is the small external abstraction the graph consumes. It is
// deliberately narrower than a full GPU API binding: callers own
// pipelines, shaders, and bind-group layouts; the graph only needs
// backing-allocation sizing, aliasing resource creation, view creation,
// timestamp query heaps, and constant ring buffers. Barriers are
// submitted through CommandList, not Device.
//
// Device is intentionally shaped after D3D12's descriptor-heap/root-slot
// binding model rather than a WebGPU bind-group model, since that is the
// binding model the barrier-synthesis algorithm below assumes.
type Device interface {
	// ResourceAllocationInfo sums the size/alignment requirement of
	// aliasing the given non-imported descriptions on one backing
	// allocation.
	ResourceAllocationInfo(descs []ResourceDesc) AllocationInfo

	// CreateAliasingBuffer creates a buffer aliased onto backing at
	// offset, in the given initial GPU state.
	CreateAliasingBuffer(offset uint64, desc BufferDesc, initial GPUState) (BufferHandle, error)

	// CreateAliasingTexture creates a texture aliased onto backing at
	// offset, in the given initial GPU state, with an optional clear
	// value for render-target/depth-stencil textures.
	CreateAliasingTexture(offset uint64, desc TextureDesc, initial GPUState, clear *ClearValue) (TextureHandle, error)

	// CreateBufferView creates a derived buffer handle refined per desc.
	CreateBufferView(base BufferHandle, desc BufferDesc) (BufferHandle, error)

	// CreateTextureView creates a derived texture handle refined per
	// desc, baseMip, and mipCount.
	CreateTextureView(base TextureHandle, desc TextureDesc, baseMip, mipCount uint32) (TextureHandle, error)

	// ReleaseBufferImmediate and ReleaseTextureImmediate release a
	// non-imported device resource. Never called on an imported handle.
	ReleaseBufferImmediate(BufferHandle)
	ReleaseTextureImmediate(TextureHandle)

	// ReserveBackingAllocation (re)sizes the single backing allocation
	// the allocator aliases resources onto.
	ReserveBackingAllocation(size, alignment uint64) error
	ReleaseBackingAllocation()

	// CreateQueryHeap allocates a timestamp query heap of the given
	// entry count.
	CreateQueryHeap(count uint32) (QueryHeapHandle, error)
	ReleaseQueryHeap(QueryHeapHandle)

	// CreateRingBuffer allocates a device-visible ring buffer of size
	// bytes, used for per-pass, per-frame, and global constants.
	CreateRingBuffer(size uint64) (BufferHandle, error)
	ReleaseRingBuffer(BufferHandle)

	// WriteBuffer uploads data into a device buffer at the given byte
	// offset (used once per compile for the global-constants buffer).
	WriteBuffer(buf BufferHandle, offset uint64, data []byte) error
}

// CommandList is the graph's view of command recording. Execute records
// against it once per frame; the caller owns submission.
type CommandList interface {
	// BindDefaults binds the root signature, default descriptor heaps,
	// and default primitive topology.
	BindDefaults()

	// BindConstantBuffer binds a ring-buffer region at the given slot.
	// Graph.Execute uses slot 0 for the global-constants buffer, slot 1
	// for the per-frame constants buffer (at the current frame's
	// offset), and slot 2 for the per-pass constants buffer (at the
	// current frame's slot of that buffer).
	BindConstantBuffer(slot uint32, buf BufferHandle, offset uint64)

	// SetRenderTargets binds up to the API's max simultaneous render
	// targets plus an optional depth-stencil target. depthStencil is
	// the zero TextureHandle when absent.
	SetRenderTargets(colors []TextureHandle, depthStencil TextureHandle, hasDepthStencil bool)

	// ResourceBarrier submits a batch of barriers in one call.
	ResourceBarrier(barriers []ResourceBarrier)

	// BeginQuery/EndQuery write timestamp queries into heap at index.
	BeginQuery(heap QueryHeapHandle, index uint32)
	EndQuery(heap QueryHeapHandle, index uint32)

	// ExecuteIndirect issues a GPU-driven draw/dispatch whose arguments
	// live in argBuf at argOffset (used by passes that called
	// Builder.ReadIndirectArgs).
	ExecuteIndirect(argBuf BufferHandle, argOffset uint64)
}
