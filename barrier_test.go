// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import "testing"

func declare(b *Builder, passes *[]*passRecord, name string, kind PassKind, fn func(*Builder)) *passRecord {
	rec := newPassRecord(len(*passes), name, kind)
	*passes = append(*passes, rec)
	b.beginPass(rec)
	fn(b)
	b.endPass()
	return rec
}

func barrierAt(bs []ResourceBarrier, i int) ResourceBarrier {
	if i >= len(bs) {
		return ResourceBarrier{}
	}
	return bs[i]
}

// scenario 1: single UAV ping-pong.
func TestSynthesizeBarriersUAVPingPong(t *testing.T) {
	b := NewBuilder()
	var passes []*passRecord
	var id ResourceID

	p1 := declare(b, &passes, "P1", PassKindCompute, func(b *Builder) {
		id = b.Create(BufferDesc{Usage: BufferUsageShaderReadWrite})
		b.Write(id)
	})
	p2 := declare(b, &passes, "P2", PassKindCompute, func(b *Builder) {
		b.Write(id)
	})

	nodes := buildDependencyGraph(b, passes)
	final := synthesizeBarriers(passes, nodes)

	if len(p1.exitBarriers) != 1 || !p1.exitBarriers[0].IsUAV {
		t.Fatalf("P1 exit = %+v, want exactly one UAV barrier", p1.exitBarriers)
	}
	if len(p2.exitBarriers) != 0 {
		t.Fatalf("P2 exit = %+v, want none", p2.exitBarriers)
	}
	if len(final) != 0 {
		t.Fatalf("final = %+v, want none", final)
	}
}

// scenario 2: depth write then shader read, with a final barrier
// restoring the created pass's declared state.
func TestSynthesizeBarriersDepthReadAfterWrite(t *testing.T) {
	b := NewBuilder()
	var passes []*passRecord
	var id ResourceID

	p1 := declare(b, &passes, "P1", PassKindGraphics, func(b *Builder) {
		id = b.CreateTexture(TextureDesc{Usage: TextureUsageDepthStencilTarget})
		b.DepthStencilTarget(id)
	})
	declare(b, &passes, "P2", PassKindGraphics, func(b *Builder) {
		b.Read(id)
	})

	nodes := buildDependencyGraph(b, passes)
	final := synthesizeBarriers(passes, nodes)

	if len(p1.exitBarriers) != 1 {
		t.Fatalf("P1 exit = %+v, want exactly one transition", p1.exitBarriers)
	}
	got := p1.exitBarriers[0]
	if got.IsUAV || got.Old != StateDepthWrite || got.New != StateShaderResource {
		t.Fatalf("P1 exit[0] = %+v, want DepthWrite->ShaderResource transition", got)
	}

	if len(final) != 1 || final[0].Old != StateShaderResource || final[0].New != StateDepthWrite {
		t.Fatalf("final = %+v, want one barrier restoring DepthWrite", final)
	}
}

// scenario 3: mip-chain downsample. P1 creates T (4 mips) and writes mip
// 0. P2 reads mip 0 and writes mip 1. P3 reads mip 1 and writes mip 2.
func TestSynthesizeBarriersMipChain(t *testing.T) {
	b := NewBuilder()
	var passes []*passRecord
	var id ResourceID

	p1 := declare(b, &passes, "P1", PassKindCompute, func(b *Builder) {
		id = b.CreateTexture(TextureDesc{Width: 64, Height: 64, MipLevelCount: 4, Usage: TextureUsageShaderReadWrite})
		b.WriteTexture(id, 0)
	})
	p2 := declare(b, &passes, "P2", PassKindCompute, func(b *Builder) {
		b.WriteTexture(id, 1)
		b.ReadTexture(id, 0)
	})
	p3 := declare(b, &passes, "P3", PassKindCompute, func(b *Builder) {
		b.WriteTexture(id, 2)
		b.ReadTexture(id, 1)
	})

	nodes := buildDependencyGraph(b, passes)
	final := synthesizeBarriers(passes, nodes)

	if len(p1.exitBarriers) != 2 {
		t.Fatalf("P1 exit = %+v, want a UAV barrier and a transition", p1.exitBarriers)
	}
	if !barrierAt(p1.exitBarriers, 0).IsUAV {
		t.Errorf("P1 exit[0] = %+v, want a UAV barrier", p1.exitBarriers[0])
	}
	if tr := barrierAt(p1.exitBarriers, 1); tr.Subresource != 0 || tr.Old != StateUnorderedAccess || tr.New != StateShaderResource {
		t.Errorf("P1 exit[1] = %+v, want mip 0 UAV->ShaderResource", tr)
	}

	if len(p2.exitBarriers) != 2 {
		t.Fatalf("P2 exit = %+v, want a UAV barrier and a transition", p2.exitBarriers)
	}
	if !barrierAt(p2.exitBarriers, 0).IsUAV {
		t.Errorf("P2 exit[0] = %+v, want a UAV barrier", p2.exitBarriers[0])
	}
	if tr := barrierAt(p2.exitBarriers, 1); tr.Subresource != 1 || tr.Old != StateUnorderedAccess || tr.New != StateShaderResource {
		t.Errorf("P2 exit[1] = %+v, want mip 1 UAV->ShaderResource", tr)
	}

	if len(p3.exitBarriers) != 0 {
		t.Fatalf("P3 exit = %+v, want none", p3.exitBarriers)
	}

	if len(final) != 1 || final[0].Subresource != 0 || final[0].Old != StateShaderResource || final[0].New != StateUnorderedAccess {
		t.Fatalf("final = %+v, want mip 0 restored to UNORDERED_ACCESS", final)
	}
}

// scenario 4: an imported back buffer, written then read, restored to
// its declared render-target state.
func TestSynthesizeBarriersImportedBackBuffer(t *testing.T) {
	b := NewBuilder()
	var passes []*passRecord
	var id ResourceID

	p1 := declare(b, &passes, "P1", PassKindGraphics, func(b *Builder) {
		id = b.ImportTexture(NewTextureHandle(1), TextureDesc{Usage: TextureUsageRenderTarget})
		b.RenderTarget(id)
	})
	declare(b, &passes, "P2", PassKindGraphics, func(b *Builder) {
		b.Read(id)
	})

	nodes := buildDependencyGraph(b, passes)
	final := synthesizeBarriers(passes, nodes)

	if len(p1.exitBarriers) != 1 || p1.exitBarriers[0].Old != StateRenderTarget || p1.exitBarriers[0].New != StateShaderResource {
		t.Fatalf("P1 exit = %+v, want RenderTarget->ShaderResource", p1.exitBarriers)
	}
	if len(final) != 1 || final[0].Old != StateShaderResource || final[0].New != StateRenderTarget {
		t.Fatalf("final = %+v, want back buffer restored to RenderTarget", final)
	}
}

// scenario 5: a UAV buffer consumed as indirect-dispatch arguments,
// restored to UNORDERED_ACCESS afterward.
func TestSynthesizeBarriersIndirectDispatch(t *testing.T) {
	b := NewBuilder()
	var passes []*passRecord
	var id ResourceID

	p1 := declare(b, &passes, "P1", PassKindCompute, func(b *Builder) {
		id = b.Create(BufferDesc{Usage: BufferUsageShaderReadWrite})
		b.Write(id)
	})
	declare(b, &passes, "P2", PassKindGraphics, func(b *Builder) {
		b.ReadIndirectArgs(id)
	})

	nodes := buildDependencyGraph(b, passes)
	final := synthesizeBarriers(passes, nodes)

	if len(p1.exitBarriers) != 1 || p1.exitBarriers[0].Old != StateUnorderedAccess || p1.exitBarriers[0].New != StateIndirectArgument {
		t.Fatalf("P1 exit = %+v, want UnorderedAccess->IndirectArgument", p1.exitBarriers)
	}
	if len(final) != 1 || final[0].Old != StateIndirectArgument || final[0].New != StateUnorderedAccess {
		t.Fatalf("final = %+v, want buffer restored to UNORDERED_ACCESS", final)
	}
}
