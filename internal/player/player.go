// Package player defines the controllable-entity contract the gateway
// dispatches against, plus an in-memory registry used for standalone runs
// and tests. The real player providers live outside the gateway; the
// gateway only borrows a reference for the duration of one dispatch.
package player

import "context"

// Standard capability vocabulary. Providers may register more; the
// dispatcher never assumes the set is closed.
const (
	CmdPlay        = "play"
	CmdPause       = "pause"
	CmdStop        = "stop"
	CmdNext        = "next"
	CmdPrevious    = "previous"
	CmdPower       = "power"
	CmdPowerToggle = "powerToggle"
	CmdVolumeSet   = "volumeSet"
	CmdVolumeMute  = "volumeMute"
	CmdVolumeUp    = "volumeUp"
	CmdVolumeDown  = "volumeDown"
)

// Info is the serializable description of a player, returned by listing
// endpoints and broadcast with state-change events.
type Info struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Powered bool   `json:"powered"`
	State   string `json:"state"` // "playing", "paused", "stopped"
	Volume  int    `json:"volume"`
	Muted   bool   `json:"muted"`
}

// Player is a capability-bearing entity the dispatcher can invoke.
type Player interface {
	ID() string
	Name() string
	Capabilities() *Capabilities
	Info() Info
}

// MediaQueue is implemented by players that can enqueue catalog items.
type MediaQueue interface {
	PlayMedia(ctx context.Context, item any, queueOpt string) (any, error)
}

// QueueViewer is implemented by players that expose their play queue.
type QueueViewer interface {
	QueueItems(ctx context.Context) ([]any, error)
}

// Registry resolves player IDs to live players. Get returns (nil, nil)
// when no player carries the ID; a non-nil error means the lookup itself
// failed. Liveness can change between requests, so callers must not
// cache the returned handle across dispatches.
type Registry interface {
	Get(ctx context.Context, id string) (Player, error)
	List(ctx context.Context) ([]Info, error)
}
