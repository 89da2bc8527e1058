package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/swapsouq/messaging/internal/metrics"
)

var (
	// ErrMicrophoneUnavailable wraps permission or device failures on
	// Start. Recoverable: the user may retry.
	ErrMicrophoneUnavailable = errors.New("audio: microphone unavailable")

	// ErrRecordingTooShort is returned by Stop(send=true) when the
	// finalized payload is below the minimum size. Treated as a silent
	// cancellation, not a hard error.
	ErrRecordingTooShort = errors.New("audio: recording too short")

	// ErrCaptureBusy is returned by Start while a capture is in progress.
	// The recorder never implicitly stops an existing capture.
	ErrCaptureBusy = errors.New("audio: capture already in progress")
)

// DefaultMinPayload is the minimum finalized payload size in bytes below
// which a recording counts as accidental and produces no message.
const DefaultMinPayload = 100

// CaptureState is the recorder lifecycle state.
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureRecording
	CaptureFinalizing
)

func (s CaptureState) String() string {
	switch s {
	case CaptureRecording:
		return "recording"
	case CaptureFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// Device grants exclusive access to an audio input.
type Device interface {
	// Supports reports whether the device can encode the given MIME type.
	Supports(format string) bool

	// Acquire opens the input stream encoding into format; empty format
	// means the device default. Blocks on permission prompts.
	Acquire(ctx context.Context, format string) (Stream, error)
}

// Stream is an acquired audio input delivering encoded chunks. Close stops
// the underlying tracks and closes the chunk channel; it must be safe to
// call more than once.
type Stream interface {
	Chunks() <-chan []byte
	Close() error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFormats replaces the encoding preference list.
func WithFormats(formats ...string) RecorderOption {
	return func(r *Recorder) { r.formats = formats }
}

// WithMinPayload sets the minimum finalized payload size in bytes.
func WithMinPayload(n int) RecorderOption {
	return func(r *Recorder) { r.minPayload = n }
}

// Recorder owns the microphone resource lifecycle: Idle → Recording →
// Finalizing → Idle, with an error transition back to Idle on device
// failure. Every exit path — stop, cancel, teardown, error — converges on
// the same idempotent cleanup routine.
type Recorder struct {
	device     Device
	formats    []string
	minPayload int

	mu          sync.Mutex
	state       CaptureState
	starting    bool
	stream      Stream
	chunks      [][]byte
	elapsed     int // whole seconds
	format      string
	tickStop    chan struct{}
	collectDone chan struct{}
}

// NewRecorder creates an idle recorder over the given device.
func NewRecorder(device Device, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		device:     device,
		formats:    DefaultFormats,
		minPayload: DefaultMinPayload,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Recorder) State() CaptureState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns the recording time at one-second resolution.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(r.elapsed) * time.Second
}

// Format returns the negotiated encoding for the active capture, empty when
// idle or when the device default was selected.
func (r *Recorder) Format() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.format
}

// Start negotiates an encoding, acquires the input stream and begins
// buffering chunks. Fails fast with ErrCaptureBusy while a capture is
// active. On device failure the recorder stays Idle, runs the cleanup
// routine defensively and reports ErrMicrophoneUnavailable.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != CaptureIdle || r.starting {
		r.mu.Unlock()
		return ErrCaptureBusy
	}
	r.starting = true
	format := SelectFormat(r.formats, r.device.Supports)
	r.mu.Unlock()

	stream, err := r.device.Acquire(ctx, format)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.starting = false
	if err != nil {
		r.cleanupLocked()
		return fmt.Errorf("%w: %v", ErrMicrophoneUnavailable, err)
	}

	r.state = CaptureRecording
	r.stream = stream
	r.format = format
	r.chunks = nil
	r.elapsed = 0
	r.tickStop = make(chan struct{})
	r.collectDone = make(chan struct{})
	go r.tick(r.tickStop)
	go r.collect(stream, r.collectDone)
	return nil
}

// Stop finalizes the capture. With send=false the buffered chunks are
// discarded and no payload is returned. With send=true the chunks are
// assembled into one payload; payloads below the minimum size yield
// ErrRecordingTooShort and nothing should be sent. Calling Stop outside the
// Recording state just re-runs cleanup and returns nothing.
func (r *Recorder) Stop(send bool) ([]byte, error) {
	r.mu.Lock()
	if r.state != CaptureRecording {
		r.cleanupLocked()
		r.mu.Unlock()
		return nil, nil
	}
	r.state = CaptureFinalizing
	stream := r.stream
	collectDone := r.collectDone
	if !send {
		r.chunks = nil
	}
	r.mu.Unlock()

	// Closing the stream ends the chunk channel; wait for the collector to
	// drain whatever the encoder had in flight.
	_ = stream.Close()
	if collectDone != nil {
		<-collectDone
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var payload []byte
	if send {
		payload = bytes.Join(r.chunks, nil)
	}
	r.cleanupLocked()
	if !send {
		metrics.RecordingsDiscarded.WithLabelValues("cancelled").Inc()
		return nil, nil
	}
	if len(payload) < r.minPayload {
		metrics.RecordingsDiscarded.WithLabelValues("too_short").Inc()
		return nil, ErrRecordingTooShort
	}
	metrics.RecordingsFinalized.Inc()
	return payload, nil
}

// Cancel abandons the capture without producing a payload.
func (r *Recorder) Cancel() {
	_, _ = r.Stop(false)
}

// Close releases all resources. It is the teardown path and is safe to call
// multiple times and in any state.
func (r *Recorder) Close() {
	_, _ = r.Stop(false)
}

// cleanupLocked resets the recorder to Idle: timer stopped, stream released,
// chunk buffer emptied. Idempotent; callers hold r.mu.
func (r *Recorder) cleanupLocked() {
	if r.tickStop != nil {
		close(r.tickStop)
		r.tickStop = nil
	}
	if r.stream != nil {
		_ = r.stream.Close()
		r.stream = nil
	}
	r.collectDone = nil
	r.chunks = nil
	r.elapsed = 0
	r.format = ""
	r.state = CaptureIdle
}

func (r *Recorder) tick(stop chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.mu.Lock()
			if r.state == CaptureRecording {
				r.elapsed++
			}
			r.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (r *Recorder) collect(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		buf := make([]byte, len(chunk))
		copy(buf, chunk)
		r.mu.Lock()
		r.chunks = append(r.chunks, buf)
		r.mu.Unlock()
	}
}
