// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph_test

import (
	"testing"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/fakedevice"
)

type blurData struct {
	src rendergraph.ResourceID
	dst rendergraph.ResourceID
}

func TestGraphCompileAndExecute(t *testing.T) {
	device := fakedevice.NewDevice()
	cmd := fakedevice.NewCommandList()
	g := rendergraph.NewGraph(device, 2)

	rendergraph.AddComputePass(g, "Blur", func(b *rendergraph.Builder, p *rendergraph.Pass[blurData], data *blurData) {
		data.src = b.CreateTexture(rendergraph.TextureDesc{
			Label: "src", Width: 256, Height: 256, Usage: rendergraph.TextureUsageShaderReadWrite,
		})
		b.Write(data.src)
		p.ReserveMemory(64)
	}, func(data *blurData, res *rendergraph.Resources, cmd rendergraph.CommandList) {
		_ = res.GetTexture(data.src)
	})

	if !g.Compile(device, []byte{1, 2, 3, 4}, 8) {
		t.Fatalf("Compile returned false")
	}

	g.Execute(device, cmd, []byte{5, 6, 7, 8, 9, 10, 11, 12})

	if cmd.DefaultBinds < 1 {
		t.Fatalf("BindDefaults was not called")
	}
	if got := device.Writes(); len(got) != 2 || string(got[0].Data) != "\x01\x02\x03\x04" {
		t.Fatalf("global constants write = %+v, want first write to be the 4-byte global constants", got)
	}

	if len(cmd.ConstantBinds) != 3 {
		t.Fatalf("constant binds = %+v, want global (slot 0), per-frame (slot 1), and per-pass (slot 2)", cmd.ConstantBinds)
	}
	if cmd.ConstantBinds[1].Slot != 1 || cmd.ConstantBinds[1].Offset != 0 {
		t.Fatalf("per-frame bind = %+v, want slot 1 at offset 0 on frame 0", cmd.ConstantBinds[1])
	}
	if cmd.ConstantBinds[2].Slot != 2 || cmd.ConstantBinds[2].Offset != 0 {
		t.Fatalf("per-pass bind = %+v, want slot 2 at offset 0 on frame 0", cmd.ConstantBinds[2])
	}

	g.Execute(device, cmd, []byte{13, 14, 15, 16, 17, 18, 19, 20})
	if got := cmd.ConstantBinds[4]; got.Slot != 1 || got.Offset != 8 {
		t.Fatalf("per-frame bind on frame 1 = %+v, want slot 1 at offset 8 (second of 2 frame slots)", got)
	}
	if got := cmd.ConstantBinds[5]; got.Slot != 2 || got.Offset != 64 {
		t.Fatalf("per-pass bind on frame 1 = %+v, want slot 2 at offset 64 (second of 2 per-pass slots)", got)
	}
}

// Final barriers must be skipped on frame 0 of every compile, not just
// the graph's first compile ever: a recompile (Clear then Compile again)
// starts a fresh frame 0.
func TestGraphFinalBarriersSkipFrameZeroAfterRecompile(t *testing.T) {
	device := fakedevice.NewDevice()
	cmd := fakedevice.NewCommandList()
	g := rendergraph.NewGraph(device, 1)

	var id rendergraph.ResourceID
	register := func() {
		rendergraph.AddComputePass(g, "P1", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
			id = b.ImportTexture(rendergraph.NewTextureHandle(1), rendergraph.TextureDesc{Usage: rendergraph.TextureUsageRenderTarget})
			b.RenderTarget(id)
		}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})
		rendergraph.AddComputePass(g, "P2", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
			b.Read(id)
		}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})
	}

	register()
	if !g.Compile(device, nil, 0) {
		t.Fatalf("first Compile returned false")
	}
	g.Execute(device, cmd, nil)
	if len(cmd.Barriers) == 0 {
		t.Fatalf("expected at least the P1 exit barrier on frame 0")
	}
	barriersOnFirstFrame := len(cmd.Barriers)

	g.Execute(device, cmd, nil)
	if len(cmd.Barriers) <= barriersOnFirstFrame {
		t.Fatalf("frame 1 after first compile should flush final barriers")
	}

	g.Clear(device)
	register()
	if !g.Compile(device, nil, 0) {
		t.Fatalf("recompile returned false")
	}
	before := len(cmd.Barriers)
	g.Execute(device, cmd, nil)
	after := len(cmd.Barriers)
	if after != before+1 {
		t.Fatalf("recompile's frame 0 issued %d barrier batches, want exactly the P1 exit batch (final barriers skipped)", after-before)
	}
}

func TestGraphValidationRejectsReadAndWrittenSameResource(t *testing.T) {
	device := fakedevice.NewDevice()
	g := rendergraph.NewGraph(device, 1)

	rendergraph.AddComputePass(g, "Bad", func(b *rendergraph.Builder, p *rendergraph.Pass[struct{}], data *struct{}) {
		id := b.Create(rendergraph.BufferDesc{Usage: rendergraph.BufferUsageShaderReadWrite})
		b.Read(id)
		b.Write(id)
	}, func(*struct{}, *rendergraph.Resources, rendergraph.CommandList) {})

	if g.Compile(device, nil, 0) {
		t.Fatalf("Compile should reject a pass that both reads and writes the same resource")
	}
}
