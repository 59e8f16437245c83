package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gyaneshwarpardhi/navigation/internal/config"
	"github.com/gyaneshwarpardhi/navigation/internal/mapfile"
	"github.com/gyaneshwarpardhi/navigation/internal/navigator"
)

// Snapshot is one loaded map: its text, for rendering, and the navigator
// built from it. It is immutable once built; a reload builds a new one.
type Snapshot struct {
	Path     string
	Map      *mapfile.Map
	Nav      *navigator.Navigator
	LoadedAt time.Time
}

// Load parses the map named by cfg and builds a navigator over it.
func Load(cfg *config.NavConfig, logger *slog.Logger) (*Snapshot, error) {
	m, err := mapfile.ParseFile(cfg.Map.Path)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	return NewSnapshot(cfg.Map.Path, m, logger), nil
}

// NewSnapshot wraps an already parsed map.
func NewSnapshot(path string, m *mapfile.Map, logger *slog.Logger) *Snapshot {
	return &Snapshot{
		Path:     path,
		Map:      m,
		Nav:      navigator.New(m.Declarations, logger),
		LoadedAt: time.Now(),
	}
}
