package audio

import (
	"sync"
	"time"
)

// PlaybackState is the per-message player state. Paused is reachable only
// from Playing.
type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackPlaying
	PlaybackPaused
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Transport is the platform media bridge a Player drives.
type Transport interface {
	Play() error
	Pause() error
}

// Player tracks playback of one stored audio message. Media lifecycle
// events (metadata loaded, time update, ended) arrive through the Handle
// methods; the transport only receives play/pause commands. Each message
// gets its own independent instance.
type Player struct {
	mu        sync.Mutex
	transport Transport
	state     PlaybackState
	duration  time.Duration // zero until metadata loads
	position  time.Duration
}

// NewPlayer creates an idle player over the given transport.
func NewPlayer(transport Transport) *Player {
	return &Player{transport: transport}
}

// State returns the current playback state.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Duration returns the media duration, zero while still unknown.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Progress returns position/duration in [0, 1], zero while the duration is
// unknown.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.duration <= 0 {
		return 0
	}
	return float64(p.position) / float64(p.duration)
}

// TogglePlayPause flips between playing and paused; from idle it starts
// playback. Transport errors leave the state unchanged.
func (p *Player) TogglePlayPause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PlaybackPlaying {
		if err := p.transport.Pause(); err != nil {
			return err
		}
		p.state = PlaybackPaused
		return nil
	}
	if err := p.transport.Play(); err != nil {
		return err
	}
	p.state = PlaybackPlaying
	return nil
}

// HandleLoaded records the duration once media metadata is available.
// Non-finite backends report zero, which keeps the duration unknown.
func (p *Player) HandleLoaded(duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if duration > 0 {
		p.duration = duration
	}
}

// HandleTimeUpdate records the playback position while playing.
func (p *Player) HandleTimeUpdate(position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = position
}

// HandleEnded transitions to idle with the position reset to the start.
func (p *Player) HandleEnded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PlaybackIdle
	p.position = 0
}
