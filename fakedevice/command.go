// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package fakedevice

import "github.com/gogpu/rendergraph"

// CommandList is an in-memory rendergraph.CommandList that records every
// call it receives, in order, so tests can assert the exact barrier and
// binding sequence Graph.Execute produced.
type CommandList struct {
	DefaultBinds int
	ConstantBinds []ConstantBind
	RenderTargets []RenderTargetBind
	Barriers      [][]rendergraph.ResourceBarrier
	Queries       []QueryEvent
	Indirects     []IndirectCall
}

// ConstantBind records one BindConstantBuffer call.
type ConstantBind struct {
	Slot   uint32
	Buffer rendergraph.BufferHandle
	Offset uint64
}

// RenderTargetBind records one SetRenderTargets call.
type RenderTargetBind struct {
	Colors       []rendergraph.TextureHandle
	DepthStencil rendergraph.TextureHandle
	HasDepth     bool
}

// QueryEvent records one BeginQuery/EndQuery call.
type QueryEvent struct {
	Heap  rendergraph.QueryHeapHandle
	Index uint32
	End   bool
}

// IndirectCall records one ExecuteIndirect call.
type IndirectCall struct {
	ArgBuffer rendergraph.BufferHandle
	ArgOffset uint64
}

// NewCommandList creates an empty command list recorder.
func NewCommandList() *CommandList { return &CommandList{} }

func (c *CommandList) BindDefaults() { c.DefaultBinds++ }

func (c *CommandList) BindConstantBuffer(slot uint32, buf rendergraph.BufferHandle, offset uint64) {
	c.ConstantBinds = append(c.ConstantBinds, ConstantBind{Slot: slot, Buffer: buf, Offset: offset})
}

func (c *CommandList) SetRenderTargets(colors []rendergraph.TextureHandle, depthStencil rendergraph.TextureHandle, hasDepthStencil bool) {
	c.RenderTargets = append(c.RenderTargets, RenderTargetBind{Colors: colors, DepthStencil: depthStencil, HasDepth: hasDepthStencil})
}

func (c *CommandList) ResourceBarrier(barriers []rendergraph.ResourceBarrier) {
	cp := make([]rendergraph.ResourceBarrier, len(barriers))
	copy(cp, barriers)
	c.Barriers = append(c.Barriers, cp)
}

func (c *CommandList) BeginQuery(heap rendergraph.QueryHeapHandle, index uint32) {
	c.Queries = append(c.Queries, QueryEvent{Heap: heap, Index: index})
}

func (c *CommandList) EndQuery(heap rendergraph.QueryHeapHandle, index uint32) {
	c.Queries = append(c.Queries, QueryEvent{Heap: heap, Index: index, End: true})
}

func (c *CommandList) ExecuteIndirect(argBuf rendergraph.BufferHandle, argOffset uint64) {
	c.Indirects = append(c.Indirects, IndirectCall{ArgBuffer: argBuf, ArgOffset: argOffset})
}
