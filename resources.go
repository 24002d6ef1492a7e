// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

// resourceRecord is the post-compile counterpart of a ResourceDesc: the
// concrete device handle plus an imported flag so Clear skips it.
type resourceRecord struct {
	kind     ResourceKind
	buffer   BufferHandle
	texture  TextureHandle
	imported bool
}

// viewRecord is the post-compile counterpart of a ViewDesc. owned is true
// only when the view's refined description differed from its base and a
// distinct device view was created; Resources.Clear uses it to avoid a
// double free on views that merely alias the base handle.
type viewRecord struct {
	kind    ResourceKind
	buffer  BufferHandle
	texture TextureHandle
	owned   bool
}

// Resources holds, after compile, the concrete device handles for every
// declared resource and view, and answers view-id -> handle queries
// during execution.
type Resources struct {
	device    Device
	resources []resourceRecord
	views     []viewRecord
}

// NewResources creates an empty Resources table bound to device.
func NewResources(device Device) *Resources {
	return &Resources{device: device}
}

// Compile resolves every description and view in b against alloc and the
// device.
func (r *Resources) Compile(alloc *ResourceAllocator, b *Builder) error {
	r.resources = make([]resourceRecord, len(b.descs))
	for id := range b.descs {
		desc := &b.descs[id]
		rec := resourceRecord{kind: desc.Kind}
		switch desc.Kind {
		case ResourceKindBuffer:
			if desc.Buffer.isImport {
				rec.buffer = desc.Buffer.Imported
				rec.imported = true
			} else {
				h, err := alloc.CreateBuffer(desc.Buffer)
				if err != nil {
					return err
				}
				rec.buffer = h
			}
		case ResourceKindTexture:
			if desc.Texture.isImport {
				rec.texture = desc.Texture.Imported
				rec.imported = true
			} else {
				h, err := alloc.CreateTexture(desc.Texture)
				if err != nil {
					return err
				}
				rec.texture = h
			}
		}
		r.resources[id] = rec
	}

	r.views = make([]viewRecord, len(b.views))
	for id := range b.views {
		v := &b.views[id]
		desc := &b.descs[v.Resource]
		base := &r.resources[v.Resource]
		vr := viewRecord{kind: desc.Kind}

		if v.equalsBase(desc) {
			vr.buffer = base.buffer
			vr.texture = base.texture
			r.views[id] = vr
			continue
		}

		switch desc.Kind {
		case ResourceKindBuffer:
			refined := desc.Buffer
			refined.Usage = v.BufferUsage
			h, err := r.device.CreateBufferView(base.buffer, refined)
			if err != nil {
				return err
			}
			vr.buffer = h
			vr.owned = true
		case ResourceKindTexture:
			refined := desc.Texture
			refined.Usage = v.TextureUsage
			h, err := r.device.CreateTextureView(base.texture, refined, v.BaseMip, v.MipCount)
			if err != nil {
				return err
			}
			vr.texture = h
			vr.owned = true
		}
		r.views[id] = vr
	}
	return nil
}

// GetBuffer returns the base device handle for a buffer resource id.
// Panics if id names a texture.
func (r *Resources) GetBuffer(id ResourceID) BufferHandle {
	rec := &r.resources[id]
	if rec.kind != ResourceKindBuffer {
		panic(&DeclarationError{Resource: "resource", Err: ErrWrongResourceKind})
	}
	return rec.buffer
}

// GetTexture returns the base device handle for a texture resource id.
func (r *Resources) GetTexture(id ResourceID) TextureHandle {
	rec := &r.resources[id]
	if rec.kind != ResourceKindTexture {
		panic(&DeclarationError{Resource: "resource", Err: ErrWrongResourceKind})
	}
	return rec.texture
}

// GetBufferView returns the view handle for a buffer view id.
func (r *Resources) GetBufferView(id ResourceViewID) BufferHandle {
	return r.views[id].buffer
}

// GetTextureView returns the view handle for a texture view id.
func (r *Resources) GetTextureView(id ResourceViewID) TextureHandle {
	return r.views[id].texture
}

// Clear releases every non-imported resource and view exactly once,
// deduplicated by resource id. Views created as distinct device objects
// (owned) are released independently of their base resource; views that
// merely aliased the base are not — releasing the base once in the loop
// below is sufficient.
func (r *Resources) Clear() {
	for i := range r.views {
		v := &r.views[i]
		if !v.owned {
			continue
		}
		switch v.kind {
		case ResourceKindBuffer:
			r.device.ReleaseBufferImmediate(v.buffer)
		case ResourceKindTexture:
			r.device.ReleaseTextureImmediate(v.texture)
		}
	}
	for i := range r.resources {
		rec := &r.resources[i]
		if rec.imported {
			continue
		}
		switch rec.kind {
		case ResourceKindBuffer:
			r.device.ReleaseBufferImmediate(rec.buffer)
		case ResourceKindTexture:
			r.device.ReleaseTextureImmediate(rec.texture)
		}
	}
	r.resources = r.resources[:0]
	r.views = r.views[:0]
}
