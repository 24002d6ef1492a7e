// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

// ResourceAllocator owns one large backing allocation on the device and
// sub-allocates transient buffers/textures from it with a linear (bump
// pointer) virtual allocator. This mirrors the two-level shape a D3D12MA
// virtual block over a single committed heap would give, without
// depending on D3D12MA itself, since Device.ReserveBackingAllocation
// already abstracts the real allocation away.
type ResourceAllocator struct {
	device device
	size      uint64
	alignment uint64
	cursor    uint64
	reserved  bool
}

// device is the subset of Device the allocator needs; kept narrow so
// tests can fake just this surface if desired. The concrete Device
// satisfies it automatically.
type device interface {
	ResourceAllocationInfo(descs []ResourceDesc) AllocationInfo
	CreateAliasingBuffer(offset uint64, desc BufferDesc, initial GPUState) (BufferHandle, error)
	CreateAliasingTexture(offset uint64, desc TextureDesc, initial GPUState, clear *ClearValue) (TextureHandle, error)
	ReserveBackingAllocation(size, alignment uint64) error
	ReleaseBackingAllocation()
}

// NewResourceAllocator creates an allocator with no backing allocation.
// Graph.Compile calls Reserve whenever the declared resources outgrow
// the current reservation.
func NewResourceAllocator(dev Device) *ResourceAllocator {
	return &ResourceAllocator{device: dev}
}

// Size returns the current backing allocation's size (0 if unreserved).
func (a *ResourceAllocator) Size() uint64 { return a.size }

// Cursor returns the bump allocator's current offset: the total bytes
// allocated so far this frame.
func (a *ResourceAllocator) Cursor() uint64 { return a.cursor }

// Reserve acquires a device memory block of at least size bytes at the
// given alignment and resets the virtual allocator's cursor. Replaces any
// prior reservation.
func (a *ResourceAllocator) Reserve(size, alignment uint64) error {
	if a.reserved {
		a.device.ReleaseBackingAllocation()
	}
	if err := a.device.ReserveBackingAllocation(size, alignment); err != nil {
		return &AllocationError{Op: "reserve", Size: size, Err: err}
	}
	a.size = size
	a.alignment = alignment
	a.cursor = 0
	a.reserved = true
	Logger().Debug("rendergraph: allocator reserved", "size", size, "alignment", alignment)
	return nil
}

// Release drops the backing allocation.
func (a *ResourceAllocator) Release() {
	if !a.reserved {
		return
	}
	a.device.ReleaseBackingAllocation()
	a.size = 0
	a.alignment = 0
	a.cursor = 0
	a.reserved = false
}

// Clear resets the bump pointer to zero without freeing the backing
// allocation.
func (a *ResourceAllocator) Clear() {
	a.cursor = 0
}

func alignUp(offset, alignment uint64) uint64 {
	if alignment == 0 {
		return offset
	}
	return (offset + alignment - 1) &^ (alignment - 1)
}

func (a *ResourceAllocator) bumpAlloc(info AllocationInfo) uint64 {
	offset := alignUp(a.cursor, info.Alignment)
	a.cursor = offset + info.Size
	return offset
}

// CreateBuffer queries the device for the buffer's allocation info,
// bump-allocates an offset, and asks the device to create an aliasing
// buffer at (backing, offset) in the initial state implied by its usage.
func (a *ResourceAllocator) CreateBuffer(desc BufferDesc) (BufferHandle, error) {
	info := a.device.ResourceAllocationInfo([]ResourceDesc{{Kind: ResourceKindBuffer, Buffer: desc}})
	offset := a.bumpAlloc(info)
	handle, err := a.device.CreateAliasingBuffer(offset, desc, bufferUsageToState(desc.Usage))
	if err != nil {
		return BufferHandle{}, &AllocationError{Op: "create_aliasing_buffer", Size: info.Size, Err: err}
	}
	return handle, nil
}

// CreateTexture queries the device for the texture's allocation info,
// bump-allocates an offset, and asks the device to create an aliasing
// texture at (backing, offset) with a format-specific optimized clear
// value for render-target/depth-stencil textures, or none otherwise.
func (a *ResourceAllocator) CreateTexture(desc TextureDesc) (TextureHandle, error) {
	info := a.device.ResourceAllocationInfo([]ResourceDesc{{Kind: ResourceKindTexture, Texture: desc}})
	offset := a.bumpAlloc(info)
	clear := optimizedClearValue(desc)
	handle, err := a.device.CreateAliasingTexture(offset, desc, textureUsageToState(desc.Usage), clear)
	if err != nil {
		return TextureHandle{}, &AllocationError{Op: "create_aliasing_texture", Size: info.Size, Err: err}
	}
	return handle, nil
}

// optimizedClearValue returns depth 1.0/stencil 0 for depth-stencil
// targets, black for render targets, and nil otherwise.
func optimizedClearValue(desc TextureDesc) *ClearValue {
	switch desc.Usage {
	case TextureUsageDepthStencilTarget:
		return &ClearValue{Depth: 1.0, Stencil: 0, HasDepth: true}
	case TextureUsageRenderTarget:
		return &ClearValue{HasColor: true}
	default:
		return nil
	}
}
