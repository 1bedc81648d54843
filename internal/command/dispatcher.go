package command

import (
	"context"
	"fmt"
	"log/slog"

	"musichub/internal/player"
)

// Dispatcher resolves a normalized command against the player registry
// and invokes the matching capability. It is shared by every protocol
// surface and safe for concurrent use; it holds no player references
// between calls.
type Dispatcher struct {
	registry player.Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry player.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch resolves cmd.PlayerID, validates cmd.Name against the
// player's capability set and invokes it. The result is the capability's
// return value, or false when the capability returned nothing. Failures
// come back as ErrUnknownTarget, ErrUnknownCommand or *InvocationError;
// none of them are fatal to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (any, error) {
	p, err := d.registry.Get(ctx, cmd.PlayerID)
	if err != nil {
		return nil, &InvocationError{Command: cmd.Name, Player: cmd.PlayerID, Cause: err}
	}
	if p == nil {
		d.logger.Error("command_for_unknown_player",
			"player_id", cmd.PlayerID,
			"command", cmd.Name,
		)
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, cmd.PlayerID)
	}

	caps := p.Capabilities()
	if caps == nil || !caps.Has(cmd.Name) {
		d.logger.Error("unknown_command_for_player",
			"player", p.Name(),
			"command", cmd.Name,
		)
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}

	result, err := caps.Invoke(ctx, cmd.Name, cmd.Arg)
	if err != nil {
		return nil, &InvocationError{Command: cmd.Name, Player: p.Name(), Cause: err}
	}
	if result == nil {
		result = false
	}
	return result, nil
}
