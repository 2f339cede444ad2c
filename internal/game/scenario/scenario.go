// Package scenario turns a scenario file into a populated game: it draws the
// layers, places doors and tile triggers, and spawns every listed template.
//
// A scenario file carries its layers inline under "layers" (the same schema
// as a world layer file) or names a separate file with "layers_file",
// resolved relative to the scenario.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/npc"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Spawn places one template.
type Spawn struct {
	Template string `yaml:"template"`
	Layer    int    `yaml:"layer"`
	At       []int  `yaml:"at"`
}

// Point returns the spawn coordinates.
func (s Spawn) Point() world.Point { return world.Pt(s.At[0], s.At[1]) }

// Scenario is a parsed scenario file.
type Scenario struct {
	Name       string  `yaml:"name"`
	Intro      string  `yaml:"intro"`
	LayersFile string  `yaml:"layers_file"`
	Spawns     []Spawn `yaml:"spawns"`

	layerData []byte
}

// Validate checks the scenario's own fields; spawn positions are checked
// against the map when it is instantiated.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for i, sp := range s.Spawns {
		if sp.Template == "" {
			errs = append(errs, fmt.Errorf("spawn %d: template must not be empty", i))
		}
		if len(sp.At) != 2 {
			errs = append(errs, fmt.Errorf("spawn %d (%s): at must be [x, y]", i, sp.Template))
		}
		if sp.Layer < 0 {
			errs = append(errs, fmt.Errorf("spawn %d (%s): layer must be >= 0", i, sp.Template))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// LoadFromBytes parses a scenario whose layers are inline.
func LoadFromBytes(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.layerData = data
	if _, err := world.LoadLayersFromBytes(data); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &s, nil
}

// Load reads a scenario file, following layers_file when present.
//
// Precondition: path must point to a readable YAML scenario.
// Postcondition: the returned scenario's layers parse; spawns are unchecked.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.layerData = data
	if s.LayersFile != "" {
		lp := s.LayersFile
		if !filepath.IsAbs(lp) {
			lp = filepath.Join(filepath.Dir(path), lp)
		}
		if s.layerData, err = os.ReadFile(lp); err != nil {
			return nil, fmt.Errorf("scenario %q: reading layers: %w", s.Name, err)
		}
	}
	if _, err := world.LoadLayersFromBytes(s.layerData); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &s, nil
}

// Instantiate draws a fresh copy of the scenario's layers and populates w.
// Every call yields an independent map, so a restart never sees stains or
// opened doors from an earlier run.
//
// Precondition: w must be empty; spawner must know every spawn template.
// Postcondition: every closed door has a Door entity, every ship exit marker
// an EndGame trigger, every healing marker a Heal trigger.
func (s *Scenario) Instantiate(w *ecs.World, spawner *npc.Spawner, logger *zap.Logger) (*world.Map, error) {
	built, err := world.LoadLayersFromBytes(s.layerData)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	layers := make([]*world.Layer, len(built))
	for i, b := range built {
		layers[i] = b.Layer
	}
	m, err := world.NewMap(layers)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	for _, b := range built {
		placeFixtures(w, b)
	}
	for i, sp := range s.Spawns {
		layer := m.Layer(sp.Layer)
		if layer == nil {
			return nil, fmt.Errorf("scenario %q spawn %d (%s): no layer %d", s.Name, i, sp.Template, sp.Layer)
		}
		pt := sp.Point()
		if !layer.InBounds(pt) || layer.IsBlocked(pt) {
			return nil, fmt.Errorf("scenario %q spawn %d (%s): %d,%d is not an open tile on layer %d",
				s.Name, i, sp.Template, pt.X, pt.Y, sp.Layer)
		}
		if _, err := spawner.Spawn(w, sp.Template, component.Position{Pt: pt, Layer: sp.Layer}); err != nil {
			return nil, fmt.Errorf("scenario %q spawn %d: %w", s.Name, i, err)
		}
	}
	logger.Info("scenario instantiated",
		zap.String("scenario", s.Name),
		zap.Int("layers", m.Len()),
		zap.Int("entities", w.Len()),
	)
	return m, nil
}

func placeFixtures(w *ecs.World, b world.Built) {
	l := b.Layer
	for i, door := range l.Doors {
		if !door {
			continue
		}
		w.Spawn(
			component.Position{Pt: l.PointAt(i), Layer: l.Depth},
			component.Door{},
			component.Name("Door"),
			component.Description("A sealed bulkhead. Walk into it to force it open."),
		)
	}
	for _, pt := range b.Markers[world.MarkerShipExit] {
		w.Spawn(
			component.Position{Pt: pt, Layer: l.Depth},
			component.TileTrigger{Kind: component.TriggerEndGame},
			component.Name("Ship Exit"),
			component.Description("Step aboard to leave the colony."),
		)
	}
	for _, pt := range b.Markers[world.MarkerHealing] {
		w.Spawn(
			component.Position{Pt: pt, Layer: l.Depth},
			component.TileTrigger{Kind: component.TriggerHeal},
			component.Name("Repair Station"),
			component.Description("Restores SecBot to full health."),
		)
	}
}
