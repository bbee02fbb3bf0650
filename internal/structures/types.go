package structures

// Track represents one playable song of the catalog
type Track struct {
	Title string `json:"title"`
	File  string `json:"file"` // server-relative URL, e.g. /songs/foo.mp3
}

// PlaybackStatus is the coarse state of the player controller
type PlaybackStatus int

const (
	StatusEmpty PlaybackStatus = iota
	StatusLoadedIdle
	StatusPlaying
	StatusPaused
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoadedIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// SoundAction represents actions that can be sent to the player
type SoundAction interface{}

// Player actions
type PlayPauseAction struct{}
type PlayAction struct{}
type PauseAction struct{}
type NextAction struct{}
type PreviousAction struct{}
type SelectTrackAction struct{ Index int }
type ForwardAction struct{}
type BackwardAction struct{}
type VolumeUpAction struct{}
type VolumeDownAction struct{}
type OpenSidebarAction struct{}
type CloseSidebarAction struct{}

// SeekAction is a click on the seek bar, X relative to the bar start
type SeekAction struct {
	X     float64
	Width float64
}

// PlayerState is a snapshot of the player handed to the UI
type PlayerState struct {
	List            []Track
	Current         int // -1 before the first selection
	Status          PlaybackStatus
	Title           string
	TimeText        string
	SeekPercent     float64
	ShowPause       bool // false means the play button is the visible one
	SidebarOpen     bool
	TitleError      bool // Title reports a failure
	PlaylistMessage string
	PlaylistError   bool // PlaylistMessage reports a failure
	Volume          float64
}

// Config represents the application configuration
type Config struct {
	Server      ServerConfig `toml:"server"`
	Client      ClientConfig `toml:"client"`
	Theme       Theme        `toml:"theme"`
	KeyBindings KeyBindings  `toml:"key_bindings"`
}

// ServerConfig configures the catalog and static file server
type ServerConfig struct {
	Port     int    `toml:"port"`
	SongsDir string `toml:"songs_dir"`
	LogFile  string `toml:"log_file"`
}

// ClientConfig configures the terminal player
type ClientConfig struct {
	ServerURL     string  `toml:"server_url"`
	DefaultVolume float64 `toml:"default_volume"`
	SeekSeconds   int     `toml:"seek_seconds"`
	LogFile       string  `toml:"log_file"`

	// RequestTimeout bounds each request to the server, in seconds; 0 waits
	// indefinitely
	RequestTimeout int `toml:"request_timeout"`

	DisableAltScreen bool `toml:"disable_alt_screen"`
}

// Theme represents the UI theme configuration
type Theme struct {
	Foreground      string `toml:"foreground"`
	Selected        string `toml:"selected"`
	Playing         string `toml:"playing"`
	Border          string `toml:"border"`
	Error           string `toml:"error"`
	ProgressBar     string `toml:"progress_bar"`
	ProgressBarFill string `toml:"progress_bar_fill"`
}

// KeyBindings represents configurable keyboard shortcuts
type KeyBindings struct {
	PlayPause    string   `toml:"play_pause"`
	Quit         []string `toml:"quit"`
	Next         []string `toml:"next"`
	Previous     []string `toml:"previous"`
	SeekForward  string   `toml:"seek_forward"`
	SeekBackward string   `toml:"seek_backward"`
	VolumeUp     []string `toml:"volume_up"`
	VolumeDown   []string `toml:"volume_down"`

	MoveUp        []string `toml:"move_up"`
	MoveDown      []string `toml:"move_down"`
	Select        []string `toml:"select"`
	ToggleSidebar string   `toml:"toggle_sidebar"`
	CloseSidebar  string   `toml:"close_sidebar"`
}
