// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "fmt"

// ResourceID is a dense index into the Builder's description table. It is
// stable for the lifetime of one frame's graph and invalidated by Clear.
// It carries no generation tag: Builder.Clear invalidates the whole table
// at once, so there is nothing to distinguish a stale id from a recycled
// one within a single frame's lifetime.
type ResourceID uint32

// InvalidResourceID is never returned by Builder.Create/Import.
const InvalidResourceID ResourceID = ^ResourceID(0)

// ResourceViewID is a dense index into the Builder's view-description
// table.
type ResourceViewID uint32

// InvalidResourceViewID is never returned by a Builder view operation.
const InvalidResourceViewID ResourceViewID = ^ResourceViewID(0)

// deviceMarker distinguishes device-owned handle kinds at compile time.
type deviceMarker interface {
	deviceMarker()
}

// deviceHandle is a type-safe, opaque handle to a device-owned object
// (buffer, texture, or query heap). It carries no generation tag: the
// device, not this package, owns the lifetime of the underlying object,
// so deviceHandle is a plain opaque wrapper around whatever the Device
// implementation returns.
type deviceHandle[T deviceMarker] struct {
	raw uint64
}

func newDeviceHandle[T deviceMarker](raw uint64) deviceHandle[T] {
	return deviceHandle[T]{raw: raw}
}

// Raw returns the backend-defined 64-bit value underlying this handle.
func (h deviceHandle[T]) Raw() uint64 { return h.raw }

// IsZero reports whether the handle was never assigned by a Device call.
func (h deviceHandle[T]) IsZero() bool { return h.raw == 0 }

func (h deviceHandle[T]) String() string {
	var zero T
	return fmt.Sprintf("%T(%d)", zero, h.raw)
}

type bufferMarker struct{}

func (bufferMarker) deviceMarker() {}

type textureMarker struct{}

func (textureMarker) deviceMarker() {}

type queryHeapMarker struct{}

func (queryHeapMarker) deviceMarker() {}

// BufferHandle identifies a device-owned buffer.
type BufferHandle = deviceHandle[bufferMarker]

// TextureHandle identifies a device-owned texture.
type TextureHandle = deviceHandle[textureMarker]

// QueryHeapHandle identifies a device-owned timestamp query heap.
type QueryHeapHandle = deviceHandle[queryHeapMarker]

// NewBufferHandle wraps a backend-defined value as a BufferHandle. Device
// implementations use this to return handles from CreateAliasingBuffer.
func NewBufferHandle(raw uint64) BufferHandle { return newDeviceHandle[bufferMarker](raw) }

// NewTextureHandle wraps a backend-defined value as a TextureHandle.
func NewTextureHandle(raw uint64) TextureHandle { return newDeviceHandle[textureMarker](raw) }

// NewQueryHeapHandle wraps a backend-defined value as a QueryHeapHandle.
func NewQueryHeapHandle(raw uint64) QueryHeapHandle { return newDeviceHandle[queryHeapMarker](raw) }
