// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rendergraph implements the render graph core of a real-time GPU
// renderer: declarative per-frame resource allocation, view creation, and
// GPU state-transition barrier synthesis.
//
// A frame is built in three phases. Pass authors declare resource needs
// against a [Builder] inside their setup closures (Create, Import, Read,
// Write, RenderTarget, ...). [Graph.Compile] then allocates the declared
// resources from a single backing allocation, creates any refined views,
// walks the declarations in registration order to build a per-resource
// dependency graph, and synthesizes the minimal set of barriers needed to
// satisfy every usage transition. [Graph.Execute] replays the compiled
// schedule once per frame, invoking each pass's execute closure between
// the barriers Compile computed for it.
//
// The package owns none of shader compilation, scene representation,
// windowing, or specific pass algorithms; it consumes a small [Device]
// abstraction (see device.go) supplied by the caller.
package rendergraph
