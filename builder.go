// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "github.com/gogpu/gputypes"

// Builder captures the pass graph declaratively: one description table
// and one view-description table; the pass list itself lives on Graph,
// which clears both together. Pass setup closures are the
// only callers of its public operations; Graph drives which pass is
// "current" while a setup closure runs.
type Builder struct {
	descs []ResourceDesc
	views []ViewDesc

	current *passRecord
}

// NewBuilder creates an empty Builder. Graph owns one for its lifetime
// and clears it on Graph.Clear.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) beginPass(r *passRecord) { b.current = r }
func (b *Builder) endPass()                { b.current = nil }

func (b *Builder) desc(id ResourceID) *ResourceDesc {
	if int(id) >= len(b.descs) {
		declarationFail(b.passName(), "", ErrWrongResourceKind)
	}
	return &b.descs[id]
}

func (b *Builder) passName() string {
	if b.current == nil {
		return "<unknown>"
	}
	return b.current.name
}

// Create allocates a buffer description slot and marks it created by the
// current pass.
func (b *Builder) Create(desc BufferDesc) ResourceID {
	id := ResourceID(len(b.descs))
	b.descs = append(b.descs, ResourceDesc{Kind: ResourceKindBuffer, Buffer: desc})
	b.current.created = append(b.current.created, id)
	return id
}

// CreateTexture allocates a texture description slot and marks it
// created by the current pass.
func (b *Builder) CreateTexture(desc TextureDesc) ResourceID {
	id := ResourceID(len(b.descs))
	b.descs = append(b.descs, ResourceDesc{Kind: ResourceKindTexture, Texture: desc})
	b.current.created = append(b.current.created, id)
	return id
}

// Import records an existing device buffer handle. It is marked imported
// and also marked as created by the current pass, so final-barrier logic
// treats it as if this pass produced it.
func (b *Builder) Import(handle BufferHandle, desc BufferDesc) ResourceID {
	desc.Imported = handle
	desc.isImport = true
	id := ResourceID(len(b.descs))
	b.descs = append(b.descs, ResourceDesc{Kind: ResourceKindBuffer, Buffer: desc})
	b.current.created = append(b.current.created, id)
	return id
}

// ImportTexture records an existing device texture handle (e.g. the
// swapchain back buffer). Marked imported and created-by-current-pass.
func (b *Builder) ImportTexture(handle TextureHandle, desc TextureDesc) ResourceID {
	desc.Imported = handle
	desc.isImport = true
	id := ResourceID(len(b.descs))
	b.descs = append(b.descs, ResourceDesc{Kind: ResourceKindTexture, Texture: desc})
	b.current.created = append(b.current.created, id)
	return id
}

func (b *Builder) addView(v ViewDesc) ResourceViewID {
	id := ResourceViewID(len(b.views))
	b.views = append(b.views, v)
	return id
}

// Read produces a shader-read-only view of id and pushes it onto the
// current pass's read list.
func (b *Builder) Read(id ResourceID) ResourceViewID {
	d := b.desc(id)
	v := ViewDesc{Resource: id}
	switch d.Kind {
	case ResourceKindBuffer:
		v.BufferUsage = BufferUsageShaderReadOnly
	case ResourceKindTexture:
		v.TextureUsage = TextureUsageShaderReadOnly
		v.MipCount = d.Texture.mipCount()
	}
	view := b.addView(v)
	b.current.read = append(b.current.read, view)
	return view
}

// ReadIndirectArgs produces an IndirectArgs view of a buffer id.
// Declaration error if id refers to a texture.
func (b *Builder) ReadIndirectArgs(id ResourceID) ResourceViewID {
	d := b.desc(id)
	if d.Kind != ResourceKindBuffer {
		declarationFail(b.passName(), d.label(), ErrWrongResourceKind)
	}
	view := b.addView(ViewDesc{Resource: id, BufferUsage: BufferUsageIndirectArgs})
	b.current.read = append(b.current.read, view)
	return view
}

// ReadTexture produces a shader-read-only view restricted to a single
// mip. Declaration error if id is a buffer or mip is out of range.
func (b *Builder) ReadTexture(id ResourceID, mip uint32) ResourceViewID {
	d := b.desc(id)
	if d.Kind != ResourceKindTexture {
		declarationFail(b.passName(), d.label(), ErrWrongResourceKind)
	}
	if mip >= d.Texture.mipCount() {
		declarationFail(b.passName(), d.Texture.Label, ErrMipOutOfRange)
	}
	view := b.addView(ViewDesc{
		Resource:     id,
		TextureUsage: TextureUsageShaderReadOnly,
		BaseMip:      mip,
		MipCount:     1,
	})
	b.current.read = append(b.current.read, view)
	return view
}

// Write produces a shader-read-write view and pushes it onto the written
// list.
func (b *Builder) Write(id ResourceID) ResourceViewID {
	d := b.desc(id)
	v := ViewDesc{Resource: id}
	switch d.Kind {
	case ResourceKindBuffer:
		v.BufferUsage = BufferUsageShaderReadWrite
	case ResourceKindTexture:
		v.TextureUsage = TextureUsageShaderReadWrite
		v.MipCount = d.Texture.mipCount()
	}
	view := b.addView(v)
	b.current.written = append(b.current.written, view)
	return view
}

// WriteTexture produces a shader-read-write view restricted to one mip,
// pushed to the written list. Subresource scope is per-mip rather than
// whole-resource, unlike Write, RenderTarget and DepthStencilTarget,
// whose views cover every mip.
func (b *Builder) WriteTexture(id ResourceID, mip uint32) ResourceViewID {
	d := b.desc(id)
	if d.Kind != ResourceKindTexture {
		declarationFail(b.passName(), d.label(), ErrWrongResourceKind)
	}
	if mip >= d.Texture.mipCount() {
		declarationFail(b.passName(), d.Texture.Label, ErrMipOutOfRange)
	}
	view := b.addView(ViewDesc{
		Resource:     id,
		TextureUsage: TextureUsageShaderReadWrite,
		BaseMip:      mip,
		MipCount:     1,
	})
	b.current.written = append(b.current.written, view)
	return view
}

// RenderTarget produces a RenderTarget view, pushes it to the written
// list, and adds the texture's format to the pass's render-target-formats
// list. Declaration error if id is a buffer.
func (b *Builder) RenderTarget(id ResourceID) ResourceViewID {
	d := b.desc(id)
	if d.Kind != ResourceKindTexture {
		declarationFail(b.passName(), d.label(), ErrBufferCannotBeRenderTarget)
	}
	view := b.addView(ViewDesc{
		Resource:     id,
		TextureUsage: TextureUsageRenderTarget,
		MipCount:     d.Texture.mipCount(),
	})
	b.current.written = append(b.current.written, view)
	b.current.renderTargetFormats = append(b.current.renderTargetFormats, d.Texture.Format)
	b.current.renderTargetViews = append(b.current.renderTargetViews, view)
	return view
}

// DepthStencilTarget produces a DepthStencilTarget view, pushes it to the
// written list, and sets the pass's depth-stencil format. Declaration
// error if the pass already has a depth target, or id is a buffer.
func (b *Builder) DepthStencilTarget(id ResourceID) ResourceViewID {
	d := b.desc(id)
	if d.Kind != ResourceKindTexture {
		declarationFail(b.passName(), d.label(), ErrBufferCannotBeRenderTarget)
	}
	if b.current.hasDepthStencil {
		declarationFail(b.passName(), d.Texture.Label, ErrDuplicateDepthTarget)
	}
	view := b.addView(ViewDesc{
		Resource:     id,
		TextureUsage: TextureUsageDepthStencilTarget,
		MipCount:     d.Texture.mipCount(),
	})
	b.current.written = append(b.current.written, view)
	b.current.hasDepthStencil = true
	b.current.depthStencilFormat = d.Texture.Format
	b.current.depthStencilView = view
	return view
}

// EmplaceDescriptorDesc returns a texture's declared format without
// binding it as an attachment — e.g. for a texture consumed purely by a
// compute pass. It records nothing on the pass. Declaration error if id
// is a buffer.
func (b *Builder) EmplaceDescriptorDesc(id ResourceID) gputypes.TextureFormat {
	d := b.desc(id)
	if d.Kind != ResourceKindTexture {
		declarationFail(b.passName(), d.label(), ErrWrongResourceKind)
	}
	return d.Texture.Format
}

// Clear empties the description table, view table, and implicitly
// invalidates every previously returned ResourceID/ResourceViewID.
func (b *Builder) Clear() {
	b.descs = b.descs[:0]
	b.views = b.views[:0]
	b.current = nil
}
