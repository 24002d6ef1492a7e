// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package fakedevice implements rendergraph.Device and
// rendergraph.CommandList entirely in memory, for tests that exercise
// Graph.Compile/Execute without a real GPU backend. Unlike a pure no-op
// stub it actually allocates handles and records the barrier/bind
// traffic a test wants to assert against.
package fakedevice

import (
	"sync/atomic"

	"github.com/gogpu/rendergraph"
)

// Device is an in-memory rendergraph.Device. Every create call hands out
// a fresh, distinct handle by bumping a shared atomic counter; size
// accounting always reports a fixed alignment, favoring simple,
// predictable placeholder behavior over modeling a real allocator's
// internals.
type Device struct {
	nextHandle atomic.Uint64

	backingSize uint64

	buffers  map[uint64]rendergraph.BufferDesc
	textures map[uint64]rendergraph.TextureDesc
	writes   []BufferWrite

	releasedBuffers  []rendergraph.BufferHandle
	releasedTextures []rendergraph.TextureHandle
}

// BufferWrite records one Device.WriteBuffer call, for tests that assert
// the global-constants buffer was populated.
type BufferWrite struct {
	Buffer rendergraph.BufferHandle
	Offset uint64
	Data   []byte
}

// NewDevice creates an empty fake device.
func NewDevice() *Device {
	return &Device{
		buffers:  make(map[uint64]rendergraph.BufferDesc),
		textures: make(map[uint64]rendergraph.TextureDesc),
	}
}

func (d *Device) alloc() uint64 {
	return d.nextHandle.Add(1)
}

const fakeAlignment = 256

// ResourceAllocationInfo sums one fakeAlignment-rounded block per
// description. Buffers cost their declared size; textures cost
// width*height*layers*4 bytes for the top mip, and each further mip m
// adds the running total shifted right by 2*m (a deliberately crude
// stand-in, this package never touches real pixel data).
func (d *Device) ResourceAllocationInfo(descs []rendergraph.ResourceDesc) rendergraph.AllocationInfo {
	var total uint64
	for _, desc := range descs {
		switch desc.Kind {
		case rendergraph.ResourceKindBuffer:
			total += alignUp(desc.Buffer.Size, fakeAlignment)
		case rendergraph.ResourceKindTexture:
			t := desc.Texture
			layers := t.DepthOrArrayLayers
			if layers == 0 {
				layers = 1
			}
			size := uint64(t.Width) * uint64(t.Height) * uint64(layers) * 4
			for mip := uint32(1); mip < t.MipLevelCount; mip++ {
				size += size >> (2 * mip)
			}
			total += alignUp(size, fakeAlignment)
		}
	}
	return rendergraph.AllocationInfo{Size: total, Alignment: fakeAlignment}
}

func alignUp(v, a uint64) uint64 {
	return (v + a - 1) &^ (a - 1)
}

// CreateAliasingBuffer hands out a new handle and records the
// description; offset and initial are accepted but not modeled further.
func (d *Device) CreateAliasingBuffer(_ uint64, desc rendergraph.BufferDesc, _ rendergraph.GPUState) (rendergraph.BufferHandle, error) {
	h := rendergraph.NewBufferHandle(d.alloc())
	d.buffers[h.Raw()] = desc
	return h, nil
}

// CreateAliasingTexture hands out a new handle and records the
// description.
func (d *Device) CreateAliasingTexture(_ uint64, desc rendergraph.TextureDesc, _ rendergraph.GPUState, _ *rendergraph.ClearValue) (rendergraph.TextureHandle, error) {
	h := rendergraph.NewTextureHandle(d.alloc())
	d.textures[h.Raw()] = desc
	return h, nil
}

// CreateBufferView hands out a distinct handle derived from base.
func (d *Device) CreateBufferView(base rendergraph.BufferHandle, desc rendergraph.BufferDesc) (rendergraph.BufferHandle, error) {
	h := rendergraph.NewBufferHandle(d.alloc())
	d.buffers[h.Raw()] = desc
	return h, nil
}

// CreateTextureView hands out a distinct handle derived from base.
func (d *Device) CreateTextureView(base rendergraph.TextureHandle, desc rendergraph.TextureDesc, baseMip, mipCount uint32) (rendergraph.TextureHandle, error) {
	h := rendergraph.NewTextureHandle(d.alloc())
	desc.MipLevelCount = mipCount
	d.textures[h.Raw()] = desc
	return h, nil
}

// ReleaseBufferImmediate forgets the buffer's recorded description and
// records the release for double-free detection in tests.
func (d *Device) ReleaseBufferImmediate(h rendergraph.BufferHandle) {
	delete(d.buffers, h.Raw())
	d.releasedBuffers = append(d.releasedBuffers, h)
}

// ReleaseTextureImmediate forgets the texture's recorded description and
// records the release for double-free detection in tests.
func (d *Device) ReleaseTextureImmediate(h rendergraph.TextureHandle) {
	delete(d.textures, h.Raw())
	d.releasedTextures = append(d.releasedTextures, h)
}

// ReleasedBuffers returns every handle ReleaseBufferImmediate was called
// with, in order, for tests asserting no resource is freed twice.
func (d *Device) ReleasedBuffers() []rendergraph.BufferHandle { return d.releasedBuffers }

// ReserveBackingAllocation records the requested size; it never fails.
func (d *Device) ReserveBackingAllocation(size, _ uint64) error {
	d.backingSize = size
	return nil
}

// ReleaseBackingAllocation resets the recorded backing size to zero.
func (d *Device) ReleaseBackingAllocation() { d.backingSize = 0 }

// BackingSize returns the most recently reserved backing allocation
// size, for tests asserting growth/reuse behavior across compiles.
func (d *Device) BackingSize() uint64 { return d.backingSize }

// CreateQueryHeap hands out a new handle; count is not modeled further.
func (d *Device) CreateQueryHeap(count uint32) (rendergraph.QueryHeapHandle, error) {
	return rendergraph.NewQueryHeapHandle(d.alloc()), nil
}

// ReleaseQueryHeap is a no-op; this package tracks no heap state.
func (d *Device) ReleaseQueryHeap(rendergraph.QueryHeapHandle) {}

// CreateRingBuffer hands out a new handle; size is not modeled further.
func (d *Device) CreateRingBuffer(size uint64) (rendergraph.BufferHandle, error) {
	h := rendergraph.NewBufferHandle(d.alloc())
	d.buffers[h.Raw()] = rendergraph.BufferDesc{Label: "ring", Size: size}
	return h, nil
}

// ReleaseRingBuffer forgets the ring buffer's recorded description.
func (d *Device) ReleaseRingBuffer(h rendergraph.BufferHandle) { delete(d.buffers, h.Raw()) }

// WriteBuffer records the write for later inspection; it copies data so
// callers can safely reuse their slice afterward.
func (d *Device) WriteBuffer(buf rendergraph.BufferHandle, offset uint64, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	d.writes = append(d.writes, BufferWrite{Buffer: buf, Offset: offset, Data: cp})
	return nil
}

// Writes returns every WriteBuffer call recorded so far.
func (d *Device) Writes() []BufferWrite { return d.writes }
