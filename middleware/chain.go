package middleware

import (
	"context"

	"github.com/felixgeelhaar/conduit/service"
)

// Layer wraps a Service with additional behavior. A Layer has no side
// effects at construction time beyond wrapping; the wrapper takes exclusive
// ownership of the inner service for its lifetime.
type Layer[Req, Resp any] func(service.Service[Req, Resp]) service.Service[Req, Resp]

// Chain composes multiple layers into a single layer.
// Layers are applied in order, so Chain(l1, l2, l3) results in
// l1 wrapping l2 wrapping l3 wrapping the final service: l1 observes a
// request first on the way in and last on the way out.
func Chain[Req, Resp any](layers ...Layer[Req, Resp]) Layer[Req, Resp] {
	return func(final service.Service[Req, Resp]) service.Service[Req, Resp] {
		// Apply layers in reverse order so they execute in order
		for i := len(layers) - 1; i >= 0; i-- {
			final = layers[i](final)
		}
		return final
	}
}

// Stack provides a fluent API for building layer stacks.
type Stack[Req, Resp any] struct {
	layers []Layer[Req, Resp]
}

// Use creates a new stack starting with the given layers.
func Use[Req, Resp any](layers ...Layer[Req, Resp]) *Stack[Req, Resp] {
	return &Stack[Req, Resp]{
		layers: layers,
	}
}

// Append adds layers to the stack and returns the updated stack.
func (s *Stack[Req, Resp]) Append(layers ...Layer[Req, Resp]) *Stack[Req, Resp] {
	s.layers = append(s.layers, layers...)
	return s
}

// Then applies the stack to a service and returns the wrapped service.
func (s *Stack[Req, Resp]) Then(svc service.Service[Req, Resp]) service.Service[Req, Resp] {
	return Chain(s.layers...)(svc)
}

// ThenFunc applies the stack to a plain function and returns the wrapped service.
func (s *Stack[Req, Resp]) ThenFunc(fn func(ctx context.Context, req Req) (Resp, error)) service.Service[Req, Resp] {
	return s.Then(service.ServiceFunc[Req, Resp](fn))
}
