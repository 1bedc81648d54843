package player

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// PublishFunc lets a player push state-change events without depending on
// the event bus directly.
type PublishFunc func(message string, details any)

// DemoPlayer is a self-contained player used when the gateway runs
// without real player providers. Every state mutation publishes a
// "player updated" event carrying the new snapshot.
type DemoPlayer struct {
	id      string
	name    string
	caps    *Capabilities
	publish PublishFunc

	mu      sync.Mutex
	powered bool
	state   string // "playing", "paused", "stopped"
	volume  int
	muted   bool
	current any
	queue   []any
}

// NewDemoPlayer builds a powered-off, stopped player with the full
// standard capability vocabulary bound. publish may be nil.
func NewDemoPlayer(id, name string, publish PublishFunc) *DemoPlayer {
	p := &DemoPlayer{
		id:      id,
		name:    name,
		publish: publish,
		state:   "stopped",
		volume:  50,
	}
	p.caps = NewCapabilities()
	p.caps.Register(CmdPlay, p.play)
	p.caps.Register(CmdPause, p.pause)
	p.caps.Register(CmdStop, p.stop)
	p.caps.Register(CmdNext, p.next)
	p.caps.Register(CmdPrevious, p.previous)
	p.caps.Register(CmdPower, p.powerToggle)
	p.caps.RegisterArg(CmdPower, p.power)
	p.caps.Register(CmdPowerToggle, p.powerToggle)
	p.caps.RegisterArg(CmdVolumeSet, p.volumeSet)
	p.caps.RegisterArg(CmdVolumeMute, p.volumeMute)
	p.caps.Register(CmdVolumeUp, p.volumeUp)
	p.caps.Register(CmdVolumeDown, p.volumeDown)
	return p
}

func (p *DemoPlayer) ID() string                  { return p.id }
func (p *DemoPlayer) Name() string                { return p.name }
func (p *DemoPlayer) Capabilities() *Capabilities { return p.caps }

// Info returns a consistent snapshot of the player state.
func (p *DemoPlayer) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.infoLocked()
}

func (p *DemoPlayer) infoLocked() Info {
	return Info{
		ID:      p.id,
		Name:    p.name,
		Powered: p.powered,
		State:   p.state,
		Volume:  p.volume,
		Muted:   p.muted,
	}
}

// changed publishes the post-mutation snapshot. Callers hold p.mu.
func (p *DemoPlayer) changed() {
	if p.publish == nil {
		return
	}
	p.publish("player updated", p.infoLocked())
}

func (p *DemoPlayer) play(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.powered = true
	p.state = "playing"
	p.changed()
	return true, nil
}

func (p *DemoPlayer) pause(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "paused"
	p.changed()
	return true, nil
}

func (p *DemoPlayer) stop(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "stopped"
	p.current = nil
	p.changed()
	return true, nil
}

func (p *DemoPlayer) next(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "playing"
	p.changed()
	return true, nil
}

func (p *DemoPlayer) previous(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "playing"
	p.changed()
	return true, nil
}

func (p *DemoPlayer) power(_ context.Context, arg string) (any, error) {
	on, err := parseOnOff(arg)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.powered = on
	if !on {
		p.state = "stopped"
	}
	p.changed()
	return true, nil
}

func (p *DemoPlayer) powerToggle(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.powered = !p.powered
	if !p.powered {
		p.state = "stopped"
	}
	p.changed()
	return true, nil
}

func (p *DemoPlayer) volumeSet(_ context.Context, arg string) (any, error) {
	level, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid volume level %q: %w", arg, err)
	}
	if level < 0 || level > 100 {
		return nil, fmt.Errorf("volume level %d out of range 0-100", level)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = level
	p.changed()
	return true, nil
}

func (p *DemoPlayer) volumeMute(_ context.Context, arg string) (any, error) {
	muted, err := parseOnOff(arg)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	p.changed()
	return true, nil
}

func (p *DemoPlayer) volumeUp(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume < 100 {
		p.volume++
	}
	p.changed()
	return true, nil
}

func (p *DemoPlayer) volumeDown(_ context.Context) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume > 0 {
		p.volume--
	}
	p.changed()
	return true, nil
}

// PlayMedia implements MediaQueue: load the resolved catalog item and
// start playback. queueOpt "add" appends to the queue; anything else
// replaces it.
func (p *DemoPlayer) PlayMedia(_ context.Context, item any, queueOpt string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if queueOpt == "add" {
		p.queue = append(p.queue, item)
	} else {
		p.queue = []any{item}
	}
	p.powered = true
	p.state = "playing"
	p.current = item
	p.changed()
	return true, nil
}

// QueueItems implements QueueViewer with a snapshot of the play queue.
func (p *DemoPlayer) QueueItems(_ context.Context) ([]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]any, len(p.queue))
	copy(items, p.queue)
	return items, nil
}

func parseOnOff(arg string) (bool, error) {
	switch arg {
	case "1", "on", "true":
		return true, nil
	case "0", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid on/off argument %q", arg)
}
