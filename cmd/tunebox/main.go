package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/haryoiro/tunebox/internal/catalog"
	"github.com/haryoiro/tunebox/internal/config"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/player"
	"github.com/haryoiro/tunebox/internal/server"
	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/haryoiro/tunebox/internal/systems"
	"github.com/haryoiro/tunebox/internal/ui"
	"github.com/haryoiro/tunebox/internal/version"
)

const banner = `
 _              _
| |_ _  _ _ _  ___| |__  _____ __
|  _| || | ' \/ -_) '_ \/ _ \ \ /
 \__|\_,_|_||_\___|_.__/\___/_\_\
        local MP3 server and player`

func usage() {
	fmt.Println(banner)
	fmt.Println("\nUsage:")
	fmt.Println("  tunebox serve [-config file] [-port n] [-songs dir] [-log-level level] [-debug]")
	fmt.Println("  tunebox play  [-config file] [-server url | -local dir] [-log-level level] [-debug]")
	fmt.Println("  tunebox -version")
	fmt.Println("  tunebox -help")
	fmt.Println("\nPlayer keys:")
	fmt.Println("    Space       - Play/Pause")
	fmt.Println("    n or ]      - Next song")
	fmt.Println("    p or [      - Previous song")
	fmt.Println("    ← / →       - Seek backward / forward")
	fmt.Println("    + / -       - Volume up / down")
	fmt.Println("    ↑↓ or k/j   - Move selection")
	fmt.Println("    Enter or l  - Play selected song")
	fmt.Println("    Tab / Esc   - Toggle / close the song list")
	fmt.Println("    q, Ctrl+C   - Quit")
}

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *showHelp || flag.NArg() == 0 {
		usage()
		return
	}

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "serve":
		err = runServe(args)
	case "play":
		err = runPlay(args)
	default:
		usage()
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	fset := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		configPath = fset.String("config", "", "Path to config.toml")
		port       = fset.Int("port", 0, "Port to listen on (overrides config)")
		songsDir   = fset.String("songs", "", "Directory with MP3 files (overrides config)")
		logLevel   = fset.String("log-level", "info", "Minimum log level: debug, info, warn, error")
		debugMode  = fset.Bool("debug", false, "Enable debug logging")
	)
	if err := fset.Parse(args); err != nil {
		return err
	}

	configDir, dataDir := getDirectories()
	logFile := filepath.Join(dataDir, "tunebox-server.log")

	cfg := loadConfiguration(*configPath, configDir)
	if cfg.Server.LogFile != "" {
		logFile = cfg.Server.LogFile
	}
	if err := initLogging(logFile, *logLevel, *debugMode, true); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.CloseLogger()

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *songsDir != "" {
		cfg.Server.SongsDir = *songsDir
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Server.SongsDir); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Songs directory %s does not exist", cfg.Server.SongsDir)
	}

	srv, err := server.New(cfg.Server, os.DirFS(cfg.Server.SongsDir))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving songs from %s", cfg.Server.SongsDir)
	return srv.ListenAndServe(ctx)
}

func runPlay(args []string) error {
	fset := flag.NewFlagSet("play", flag.ExitOnError)
	var (
		configPath = fset.String("config", "", "Path to config.toml")
		serverURL  = fset.String("server", "", "tunebox server URL (overrides config)")
		localDir   = fset.String("local", "", "Play a local directory without a server")
		logLevel   = fset.String("log-level", "info", "Minimum log level: debug, info, warn, error")
		debugMode  = fset.Bool("debug", false, "Enable debug logging")
	)
	if err := fset.Parse(args); err != nil {
		return err
	}

	configDir, dataDir := getDirectories()
	logFile := filepath.Join(dataDir, "tunebox.log")

	cfg := loadConfiguration(*configPath, configDir)
	if cfg.Client.LogFile != "" {
		logFile = cfg.Client.LogFile
	}
	// stdout belongs to the terminal UI
	if err := initLogging(logFile, *logLevel, *debugMode, false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.CloseLogger()

	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}

	appSystems, err := newSystems(cfg, *localDir)
	if err != nil {
		return err
	}

	logger.Debug("Starting all application systems...")
	if err := appSystems.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start systems: %w", err)
	}
	defer func() {
		logger.Debug("Stopping all application systems...")
		appSystems.Stop()
	}()

	logger.Info("tunebox player starting...")
	if err := ui.Run(appSystems.Player, cfg); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	logger.Info("tunebox player shutdown complete")
	return nil
}

// newSystems picks the catalog and track source: a local directory when
// localDir is set, otherwise the configured server.
func newSystems(cfg *structures.Config, localDir string) (*systems.Systems, error) {
	if localDir != "" {
		logger.Info("Playing local directory %s", localDir)
		source := systems.NewLocalAPISystem(catalog.DirSource{FS: os.DirFS(localDir)})
		audio := player.New(player.DirFetcher{Dir: localDir, Prefix: constants.SongsURLPrefix})
		return systems.New(cfg, source, audio), nil
	}

	source, err := systems.NewAPISystem(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Using server %s", cfg.Client.ServerURL)
	audio := player.New(source.Client())
	return systems.New(cfg, source, audio), nil
}

// loadConfiguration reads the config file, writing defaults when it is missing
func loadConfiguration(path, configDir string) *structures.Config {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(configDir, "config.toml")
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg
	}

	cfg = config.Default()
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		if err := config.Save(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save default config: %v\n", err)
		}
		return cfg
	}
	fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
	return cfg
}

func getDirectories() (config, data string) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		config = filepath.Join(xdgConfig, "tunebox")
	} else if home, err := os.UserHomeDir(); err == nil {
		config = filepath.Join(home, ".config", "tunebox")
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		data = filepath.Join(xdgData, "tunebox")
	} else if home, err := os.UserHomeDir(); err == nil {
		data = filepath.Join(home, ".local", "share", "tunebox")
	}

	os.MkdirAll(config, 0755)
	os.MkdirAll(data, 0755)
	return
}

// resolveLogLevel combines -log-level with -debug, which always wins
func resolveLogLevel(name string, debugMode bool) (logger.LogLevel, bool, error) {
	if debugMode {
		return logger.DEBUG, true, nil
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return logger.INFO, false, err
	}
	return level, level == logger.DEBUG, nil
}

func initLogging(logFile, levelName string, debugMode, console bool) error {
	logLevel, debugMode, err := resolveLogLevel(levelName, debugMode)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(logFile, logLevel, debugMode, console); err != nil {
		return err
	}

	logger.Info("Logger initialized with debug mode: %v", debugMode)
	return nil
}
