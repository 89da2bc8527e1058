package audio

import (
	"errors"
	"testing"
	"time"
)

type fakeTransport struct {
	plays    int
	pauses   int
	playErr  error
	pauseErr error
}

func (t *fakeTransport) Play() error  { t.plays++; return t.playErr }
func (t *fakeTransport) Pause() error { t.pauses++; return t.pauseErr }

func TestTogglePlayPauseTransitions(t *testing.T) {
	transport := &fakeTransport{}
	p := NewPlayer(transport)

	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle, got %v", p.State())
	}

	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if p.State() != PlaybackPlaying {
		t.Fatalf("expected playing, got %v", p.State())
	}

	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if p.State() != PlaybackPaused {
		t.Fatalf("expected paused, got %v", p.State())
	}

	// Resume from paused.
	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if p.State() != PlaybackPlaying {
		t.Fatalf("expected playing after resume, got %v", p.State())
	}

	if transport.plays != 2 || transport.pauses != 1 {
		t.Fatalf("expected 2 plays / 1 pause, got %d / %d", transport.plays, transport.pauses)
	}
}

func TestTransportErrorLeavesStateUnchanged(t *testing.T) {
	transport := &fakeTransport{playErr: errors.New("autoplay blocked")}
	p := NewPlayer(transport)

	if err := p.TogglePlayPause(); err == nil {
		t.Fatal("expected play error")
	}
	if p.State() != PlaybackIdle {
		t.Fatalf("state changed despite transport error: %v", p.State())
	}

	transport.playErr = nil
	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}

	transport.pauseErr = errors.New("backend gone")
	if err := p.TogglePlayPause(); err == nil {
		t.Fatal("expected pause error")
	}
	if p.State() != PlaybackPlaying {
		t.Fatalf("expected still playing, got %v", p.State())
	}
}

func TestEndedResetsToStart(t *testing.T) {
	p := NewPlayer(&fakeTransport{})

	p.HandleLoaded(10 * time.Second)
	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	p.HandleTimeUpdate(10 * time.Second)

	p.HandleEnded()
	if p.State() != PlaybackIdle {
		t.Fatalf("expected idle after ended, got %v", p.State())
	}
	if p.Position() != 0 {
		t.Fatalf("expected position reset, got %v", p.Position())
	}

	// Replay starts from the beginning.
	if err := p.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if p.State() != PlaybackPlaying {
		t.Fatalf("expected playing on replay, got %v", p.State())
	}
}

func TestProgressUnknownDuration(t *testing.T) {
	p := NewPlayer(&fakeTransport{})

	p.HandleTimeUpdate(3 * time.Second)
	if p.Progress() != 0 {
		t.Fatalf("expected 0 progress with unknown duration, got %f", p.Progress())
	}

	// Zero-duration metadata (non-finite backends) keeps it unknown.
	p.HandleLoaded(0)
	if p.Progress() != 0 {
		t.Fatalf("expected 0 progress, got %f", p.Progress())
	}

	p.HandleLoaded(12 * time.Second)
	if got := p.Progress(); got != 0.25 {
		t.Fatalf("expected 0.25 progress, got %f", got)
	}
}

func TestSelectFormatPreferenceOrder(t *testing.T) {
	supported := func(f string) bool { return f == "audio/ogg;codecs=opus" || f == "audio/webm" }

	if got := SelectFormat(DefaultFormats, supported); got != "audio/ogg;codecs=opus" {
		t.Fatalf("expected first supported preference, got %q", got)
	}
	if got := SelectFormat(DefaultFormats, func(string) bool { return false }); got != "" {
		t.Fatalf("expected empty fallback, got %q", got)
	}
	if got := SelectFormat(DefaultFormats, func(string) bool { return true }); got != "audio/webm;codecs=opus" {
		t.Fatalf("expected top preference, got %q", got)
	}
}
