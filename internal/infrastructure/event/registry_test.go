package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()

	registry.Register(typed, "OrderPlaced", "OrderPaid")
	registry.Register(typed, "OrderPlaced")
	registry.Register(wildcard)

	assert.Equal(t, 2, registry.Len())
	handlers := registry.GetHandlers("OrderPlaced")
	if assert.Len(t, handlers, 2, "duplicate registration is ignored") {
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1], "wildcard handlers come last")
	}
	assert.Len(t, registry.GetHandlers("CartMerged"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	registry.Register(a, "OrderPlaced")
	registry.Register(b, "OrderPlaced")
	registry.Register(a)

	registry.Unregister(a)

	handlers := registry.GetHandlers("OrderPlaced")
	if assert.Len(t, handlers, 1) {
		assert.Same(t, b, handlers[0])
	}
	assert.Equal(t, 1, registry.Len())

	registry.Unregister(b)
	assert.Empty(t, registry.GetHandlers("OrderPlaced"))
	assert.Zero(t, registry.Len())
}
