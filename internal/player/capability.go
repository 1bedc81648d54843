package player

import (
	"context"
	"errors"
	"fmt"
)

// Action is a player operation that takes no argument.
type Action func(ctx context.Context) (any, error)

// ActionArg is a player operation that takes a single string argument.
// Argument validation is the operation's own concern.
type ActionArg func(ctx context.Context, arg string) (any, error)

// ErrUnknownCapability is returned when a capability name has never been
// registered on the set.
var ErrUnknownCapability = errors.New("unknown capability")

// operation holds the bound handles for one capability name. A name may
// carry both forms (e.g. power works with and without an argument).
type operation struct {
	run    Action
	runArg ActionArg
}

// Capabilities maps command names to bound operations. The set is built
// once at player construction and is read-only afterwards, so lookups
// need no locking. Unknown names are a lookup miss, not a reflection
// failure.
type Capabilities struct {
	ops map[string]operation
}

// NewCapabilities creates an empty capability set.
func NewCapabilities() *Capabilities {
	return &Capabilities{ops: make(map[string]operation)}
}

// Register binds a zero-argument operation to name.
func (c *Capabilities) Register(name string, fn Action) {
	op := c.ops[name]
	op.run = fn
	c.ops[name] = op
}

// RegisterArg binds a one-argument operation to name.
func (c *Capabilities) RegisterArg(name string, fn ActionArg) {
	op := c.ops[name]
	op.runArg = fn
	c.ops[name] = op
}

// Has reports whether name is a registered capability.
func (c *Capabilities) Has(name string) bool {
	_, ok := c.ops[name]
	return ok
}

// Invoke runs the named capability. The argument is passed through only
// when one was supplied and the operation accepts one; a required
// argument that is missing is an invocation error, never a panic.
func (c *Capabilities) Invoke(ctx context.Context, name string, arg *string) (any, error) {
	op, ok := c.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	if arg != nil && op.runArg != nil {
		return op.runArg(ctx, *arg)
	}
	if op.run != nil {
		return op.run(ctx)
	}
	if arg == nil && op.runArg != nil {
		return nil, fmt.Errorf("capability %s requires an argument", name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
}
