// Package command normalizes the gateway's three wire encodings of
// "do X to player P with argument A" into one shape and dispatches the
// result against the player registry.
package command

import (
	"fmt"
	"strings"
)

// Command is the normalized form shared by every protocol surface.
// Immutable once parsed.
type Command struct {
	PlayerID string
	Name     string
	Arg      *string // nil when the command carries no argument
}

// String renders the command for diagnostics.
func (c Command) String() string {
	if c.Arg != nil {
		return fmt.Sprintf("%s/%s(%s)", c.PlayerID, c.Name, *c.Arg)
	}
	return fmt.Sprintf("%s/%s", c.PlayerID, c.Name)
}

// RequestKind tags what a socket frame asked for.
type RequestKind int

const (
	// KindCommand is a player command to dispatch.
	KindCommand RequestKind = iota
	// KindListPlayers is the out-of-band "list all players" request (the
	// bare "players" frame); it never reaches the dispatcher.
	KindListPlayers
)

// Request is the parsed form of one inbound socket frame.
type Request struct {
	Kind    RequestKind
	Command Command // valid only when Kind == KindCommand
}

// ParsePath normalizes the REST surface, where the routing layer already
// split the pieces. cmdArgs is optional ("" means no argument).
func ParsePath(playerID, name, cmdArgs string) (Command, error) {
	if playerID == "" || name == "" {
		return Command{}, ErrMalformedFrame
	}
	cmd := Command{PlayerID: playerID, Name: name}
	if cmdArgs != "" {
		cmd.Arg = &cmdArgs
	}
	return cmd, nil
}

// ParseFrame normalizes one text frame from a socket surface:
//
//	players                                 -> list-players request
//	players/{player_id}/cmd/{cmd}           -> command
//	players/{player_id}/cmd/{cmd}/{args}    -> command with argument
//
// Anything else fails with ErrMalformedFrame. The function is total: no
// input panics it.
func ParseFrame(line string) (Request, error) {
	line = strings.TrimSpace(line)
	if line == "players" {
		return Request{Kind: KindListPlayers}, nil
	}

	parts := strings.Split(line, "/")
	if len(parts) != 4 && len(parts) != 5 {
		return Request{}, ErrMalformedFrame
	}
	if parts[0] != "players" || parts[2] != "cmd" {
		return Request{}, ErrMalformedFrame
	}
	if parts[1] == "" || parts[3] == "" {
		return Request{}, ErrMalformedFrame
	}

	cmd := Command{PlayerID: parts[1], Name: parts[3]}
	if len(parts) == 5 {
		arg := parts[4]
		cmd.Arg = &arg
	}
	return Request{Kind: KindCommand, Command: cmd}, nil
}
