// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rendergraph

import (
	"errors"
	"fmt"
)

// Declaration errors are programmer bugs (type mismatch, out-of-range mip,
// duplicate depth target). The policy is to fail loudly: these panic
// rather than return an error, since there is no sensible recovery in a
// release build and the caller cannot act on them.
var (
	// ErrWrongResourceKind is raised when a buffer operation targets a
	// texture id or vice versa, and when a Builder operation is given an
	// id outside its description table.
	ErrWrongResourceKind = errors.New("rendergraph: resource id refers to the wrong kind (buffer/texture)")

	// ErrMipOutOfRange is raised when a requested mip level exceeds the
	// resource's declared mip count.
	ErrMipOutOfRange = errors.New("rendergraph: mip level out of range")

	// ErrDuplicateDepthTarget is raised when a pass declares more than
	// one depth-stencil target.
	ErrDuplicateDepthTarget = errors.New("rendergraph: pass already has a depth-stencil target")

	// ErrBufferCannotBeRenderTarget is raised by RenderTarget/DepthStencilTarget
	// on a buffer resource id.
	ErrBufferCannotBeRenderTarget = errors.New("rendergraph: a buffer cannot be used as a render target")

	// ErrViewReadAndWritten is a validation error: a pass's read and
	// written lists hold views of the same resource.
	ErrViewReadAndWritten = errors.New("rendergraph: resource is both read and written by the same pass")
)

// DeclarationError wraps a declaration-time programmer error with the
// offending resource and pass names before the panic unwinds.
type DeclarationError struct {
	Pass     string
	Resource string
	Err      error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("rendergraph: pass %q, resource %q: %v", e.Pass, e.Resource, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

func declarationFail(pass, resource string, err error) {
	panic(&DeclarationError{Pass: pass, Resource: resource, Err: err})
}

// ValidationError reports a graph-level validation failure discovered
// during Compile. Compile logs it and returns false rather than panicking;
// validation failures are recoverable by skipping the frame.
type ValidationError struct {
	Pass     string
	Resource string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("pass %q, resource %q: %s", e.Pass, e.Resource, e.Message)
	}
	return fmt.Sprintf("pass %q: %s", e.Pass, e.Message)
}

// AllocationError wraps a device-layer failure to create or reserve a
// backing allocation. These are device errors: surfaced upward, the
// frame is abandoned.
type AllocationError struct {
	Op   string
	Size uint64
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("rendergraph: %s failed (size=%d): %v", e.Op, e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }
