// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

// GPUState is the initial-state/transition-state enum barriers are
// phrased over: each usage tag maps to exactly one state, so GPUState is
// a closed set rather than a combinable bitmask. A resource-view has
// exactly one usage per pass, so a plain enum with an IsUnorderedAccess
// predicate is sufficient; there is no need to describe simultaneous uses
// within one command buffer.
type GPUState uint8

const (
	StateCommon GPUState = iota
	StateVertexConstantBuffer
	StateIndexBuffer
	StateGenericRead
	StateRenderTarget
	StateUnorderedAccess
	StateDepthWrite
	StateShaderResource
	StateIndirectArgument
	StateAccelerationStructure
)

func (s GPUState) String() string {
	switch s {
	case StateCommon:
		return "COMMON"
	case StateVertexConstantBuffer:
		return "VERTEX_AND_CONSTANT_BUFFER"
	case StateIndexBuffer:
		return "INDEX_BUFFER"
	case StateGenericRead:
		return "GENERIC_READ"
	case StateRenderTarget:
		return "RENDER_TARGET"
	case StateUnorderedAccess:
		return "UNORDERED_ACCESS"
	case StateDepthWrite:
		return "DEPTH_WRITE"
	case StateShaderResource:
		return "ALL_SHADER_RESOURCE"
	case StateIndirectArgument:
		return "INDIRECT_ARGUMENT"
	case StateAccelerationStructure:
		return "ACCELERATION_STRUCTURE"
	default:
		return "UNKNOWN"
	}
}

// IsUnorderedAccess reports whether state is an unordered-access state,
// the predicate barrier synthesis uses to decide between a UAV barrier
// and a transition barrier.
func (s GPUState) IsUnorderedAccess() bool { return s == StateUnorderedAccess }

// bufferUsageToState is the buffer half of the device's initial-state
// mapping, following a D3D12-style resource-state table collapsed to
// this package's closed usage enum.
func bufferUsageToState(u BufferUsage) GPUState {
	switch u {
	case BufferUsageVertexBuffer:
		return StateVertexConstantBuffer
	case BufferUsageIndexBuffer:
		return StateIndexBuffer
	case BufferUsageUpload:
		return StateGenericRead
	case BufferUsageGeneral:
		return StateCommon
	case BufferUsageShaderReadOnly:
		return StateShaderResource
	case BufferUsageShaderReadWrite:
		return StateUnorderedAccess
	case BufferUsageIndirectArgs:
		return StateIndirectArgument
	case BufferUsageAccelerationStructure:
		return StateAccelerationStructure
	default:
		return StateCommon
	}
}

// textureUsageToState is the texture half of the device's initial-state
// mapping, the D3D12-style counterpart of bufferUsageToState.
func textureUsageToState(u TextureUsage) GPUState {
	switch u {
	case TextureUsageGeneral:
		return StateCommon
	case TextureUsageShaderReadOnly:
		return StateShaderResource
	case TextureUsageShaderReadWrite:
		return StateUnorderedAccess
	case TextureUsageRenderTarget:
		return StateRenderTarget
	case TextureUsageDepthStencilTarget:
		return StateDepthWrite
	default:
		return StateCommon
	}
}
