// Package audio holds the capture and playback state machines for voice
// messages. Both are platform-agnostic: the recorder drives an injected
// input Device and the player drives an injected Transport, so the state
// logic is testable without a real audio backend.
package audio

// DefaultFormats is the ordered encoding preference list used when a
// recorder is not configured with its own. Opus-in-WebM first, MP4 as the
// Safari fallback, then Ogg-Opus, then plain WebM before giving up and
// letting the device pick.
var DefaultFormats = []string{
	"audio/webm;codecs=opus",
	"audio/mp4",
	"audio/ogg;codecs=opus",
	"audio/webm",
}

// SelectFormat returns the first format the capability check reports as
// supported, or
// the empty string when none is, which means the device default. This is an
// environment capability negotiation, not a user choice.
func SelectFormat(preferred []string, supported func(string) bool) string {
	for _, f := range preferred {
		if supported(f) {
			return f
		}
	}
	return ""
}
