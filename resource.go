// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "github.com/gogpu/gputypes"

// ResourceKind discriminates the tagged union in ResourceDesc.
type ResourceKind uint8

const (
	ResourceKindBuffer ResourceKind = iota
	ResourceKindTexture
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindBuffer:
		return "Buffer"
	case ResourceKindTexture:
		return "Texture"
	default:
		return "Unknown"
	}
}

// BufferUsage is the closed usage tag for a buffer resource.
type BufferUsage uint8

const (
	BufferUsageVertexBuffer BufferUsage = iota
	BufferUsageIndexBuffer
	BufferUsageUpload
	BufferUsageGeneral
	BufferUsageShaderReadOnly
	BufferUsageShaderReadWrite
	BufferUsageIndirectArgs
	BufferUsageAccelerationStructure
)

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertexBuffer:
		return "VertexBuffer"
	case BufferUsageIndexBuffer:
		return "IndexBuffer"
	case BufferUsageUpload:
		return "Upload"
	case BufferUsageGeneral:
		return "General"
	case BufferUsageShaderReadOnly:
		return "ShaderReadOnly"
	case BufferUsageShaderReadWrite:
		return "ShaderReadWrite"
	case BufferUsageIndirectArgs:
		return "IndirectArgs"
	case BufferUsageAccelerationStructure:
		return "AccelerationStructure"
	default:
		return "Unknown"
	}
}

// TextureUsage is the closed usage tag for a texture resource.
type TextureUsage uint8

const (
	TextureUsageGeneral TextureUsage = iota
	TextureUsageShaderReadOnly
	TextureUsageShaderReadWrite
	TextureUsageRenderTarget
	TextureUsageDepthStencilTarget
)

func (u TextureUsage) String() string {
	switch u {
	case TextureUsageGeneral:
		return "General"
	case TextureUsageShaderReadOnly:
		return "ShaderReadOnly"
	case TextureUsageShaderReadWrite:
		return "ShaderReadWrite"
	case TextureUsageRenderTarget:
		return "RenderTarget"
	case TextureUsageDepthStencilTarget:
		return "DepthStencilTarget"
	default:
		return "Unknown"
	}
}

// BufferDesc is the abstract declaration of a transient or imported
// buffer.
type BufferDesc struct {
	Label  string
	Size   uint64
	Stride uint32
	Format gputypes.VertexFormat
	Usage  BufferUsage

	// Imported is the pre-existing device handle recorded by
	// Builder.Import (e.g. a readback staging buffer); the graph does not
	// allocate or free it. Setting it on a description passed to Create
	// has no effect.
	Imported BufferHandle
	isImport bool
}

// TextureDesc is the abstract declaration of a transient or imported
// texture.
type TextureDesc struct {
	Label           string
	Format          gputypes.TextureFormat
	Width           uint32
	Height          uint32
	DepthOrArrayLayers uint32
	MipLevelCount   uint32
	Usage           TextureUsage

	Imported TextureHandle
	isImport bool
}

func (d *TextureDesc) mipCount() uint32 {
	if d.MipLevelCount == 0 {
		return 1
	}
	return d.MipLevelCount
}

// ResourceDesc is the tagged-union description stored per resource id,
// one of Buffer or Texture depending on Kind.
type ResourceDesc struct {
	Kind    ResourceKind
	Buffer  BufferDesc
	Texture TextureDesc
}

func (d *ResourceDesc) label() string {
	if d.Kind == ResourceKindBuffer {
		return d.Buffer.Label
	}
	return d.Texture.Label
}

func (d *ResourceDesc) isImported() bool {
	if d.Kind == ResourceKindBuffer {
		return d.Buffer.isImport
	}
	return d.Texture.isImport
}

// subresourceCount returns 1 for buffers, and mip-count for textures
// (array layers beyond 1 are tracked as a single subresource range keyed
// by mip, with array_slice implicitly 0).
func (d *ResourceDesc) subresourceCount() uint32 {
	if d.Kind == ResourceKindBuffer {
		return 1
	}
	return d.Texture.mipCount()
}

// ViewDesc refines a base ResourceDesc: same resource, different usage
// and/or mip range.
type ViewDesc struct {
	Resource ResourceID

	// BufferUsage/TextureUsage is valid depending on the base resource's
	// Kind; only one is meaningful at a time.
	BufferUsage  BufferUsage
	TextureUsage TextureUsage

	BaseMip  uint32
	MipCount uint32
}

// equalsBase reports whether the view's refined description is identical
// to the resource's base description: when true, Resources.compile must
// reuse the base handle rather than create a distinct device view.
func (v *ViewDesc) equalsBase(desc *ResourceDesc) bool {
	switch desc.Kind {
	case ResourceKindBuffer:
		return v.BufferUsage == desc.Buffer.Usage
	case ResourceKindTexture:
		if v.TextureUsage != desc.Texture.Usage {
			return false
		}
		return v.BaseMip == 0 && v.MipCount == desc.Texture.mipCount()
	default:
		return false
	}
}
