package constants

import "time"

// Server constants
const (
	DefaultPort     = 3000
	SongsURLPrefix  = "/songs/"
	StaticURLPrefix = "/"
	SongsAPIPath    = "/api/songs"
	MetricsPath     = "/metrics"
	TrackExtension  = ".mp3"
	ShutdownTimeout = 5 * time.Second
	ReadTimeout     = 15 * time.Second
)

// Timing constants
const (
	PlayerUpdateInterval = 100 * time.Millisecond
	SpeakerBufferWindow  = time.Second / 10
	FetchTimeout         = 30 * time.Second
)

// UI constants
const (
	DefaultPlayerHeight = 5
	SidebarWidth        = 36
	DefaultMaxWidth     = 80
	ScrollPadding       = 2
)

// Audio player constants
const (
	SecondsPerMinute = 60
	VolumeStep       = 0.05 // 5% volume change per step
	SeekSeconds      = 10   // Seconds to seek forward/backward
)

// Action channel size for the player system
const DefaultQueueSize = 100
