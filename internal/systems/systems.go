package systems

import (
	"context"

	"github.com/haryoiro/tunebox/internal/structures"
)

// Systems contains all the core systems of the player application
type Systems struct {
	Config *structures.Config
	API    *APISystem
	Player *PlayerSystem
}

// New wires the player system to its catalog and audio handle
func New(cfg *structures.Config, catalog *APISystem, audio Audio) *Systems {
	return &Systems{
		Config: cfg,
		API:    catalog,
		Player: NewPlayerSystem(cfg, audio, catalog),
	}
}

// Start starts all systems
func (s *Systems) Start(ctx context.Context) error {
	return s.Player.Start(ctx)
}

// Stop stops all systems
func (s *Systems) Stop() error {
	s.Player.Stop()
	return nil
}
