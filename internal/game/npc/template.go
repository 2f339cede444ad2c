// Package npc holds the spawn templates for everything that populates a
// layer besides the player: hostile creatures, colonists, props, and allies.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Kind selects which behavior components a template produces.
type Kind string

// Template kinds.
const (
	KindHostile  Kind = "hostile"
	KindColonist Kind = "colonist"
	KindProp     Kind = "prop"
	KindFriendly Kind = "friendly"
)

// HostileSpec configures a creature.
type HostileSpec struct {
	Aggro  string `yaml:"aggro"` // "nearest" (default) or "player"
	Melee  []int  `yaml:"melee"` // damage per melee attack
	Ranged []struct {
		Range int `yaml:"range"`
		Power int `yaml:"power"`
	} `yaml:"ranged"`
	Domain string `yaml:"domain"` // planner domain ID; empty = built-in
}

// ColonistSpec configures a survivor.
type ColonistSpec struct {
	StartedDead bool `yaml:"started_dead"`
	Weapon      int  `yaml:"weapon"`
}

// TimerSpec attaches a TimedEvent.
type TimerSpec struct {
	Ticks    int    `yaml:"ticks"`
	Kind     string `yaml:"kind"` // "explode" or "hatch"
	Range    int    `yaml:"range"`
	Template string `yaml:"template"`
}

// PropSpec configures scenery.
type PropSpec struct {
	Value          int        `yaml:"value"`
	Decoration     bool       `yaml:"decoration"`
	ExplosiveRange int        `yaml:"explosive_range"`
	Timer          *TimerSpec `yaml:"timer"`
}

// FriendlySpec configures an allied marine.
type FriendlySpec struct {
	Power int `yaml:"power"`
}

// Template is a reusable spawn archetype loaded from YAML.
type Template struct {
	ID          string   `yaml:"id"`
	Kind        Kind     `yaml:"kind"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Glyph       string   `yaml:"glyph"`
	FG          string   `yaml:"fg"`
	BG          string   `yaml:"bg"`
	Health      int      `yaml:"health"`
	Blood       string   `yaml:"blood"`
	Targetable  bool     `yaml:"targetable"`
	Awake       bool     `yaml:"awake"` // spawn Active instead of CanBeActivated
	FOVRadius   int      `yaml:"fov_radius"`
	Dialog      []string `yaml:"dialog"`

	Hostile  *HostileSpec  `yaml:"hostile"`
	Colonist *ColonistSpec `yaml:"colonist"`
	Prop     *PropSpec     `yaml:"prop"`
	Friendly *FriendlySpec `yaml:"friendly"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID, Name and a one-rune Glyph are set, the
// kind matches exactly one spec block, colors name palette entries, and
// numeric fields are in range.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if len([]rune(t.Glyph)) != 1 {
		return fmt.Errorf("npc template %q: glyph must be exactly one character", t.ID)
	}
	for field, c := range map[string]string{"fg": t.FG, "bg": t.BG, "blood": t.Blood} {
		if c == "" {
			continue
		}
		if _, ok := world.ColorByName(c); !ok {
			return fmt.Errorf("npc template %q: %s color %q is not in the palette", t.ID, field, c)
		}
	}
	if t.Health < 0 {
		return fmt.Errorf("npc template %q: health must be >= 0", t.ID)
	}
	if t.FOVRadius < 0 {
		return fmt.Errorf("npc template %q: fov_radius must be >= 0", t.ID)
	}
	switch t.Kind {
	case KindHostile:
		if t.Hostile == nil {
			return fmt.Errorf("npc template %q: hostile kind needs a hostile block", t.ID)
		}
		if t.Health < 1 {
			return fmt.Errorf("npc template %q: hostiles need health >= 1", t.ID)
		}
		switch t.Hostile.Aggro {
		case "", "nearest", "player":
		default:
			return fmt.Errorf("npc template %q: unknown aggro %q", t.ID, t.Hostile.Aggro)
		}
		for _, d := range t.Hostile.Melee {
			if d < 1 {
				return fmt.Errorf("npc template %q: melee damage must be >= 1", t.ID)
			}
		}
		for _, r := range t.Hostile.Ranged {
			if r.Range < 1 || r.Power < 1 {
				return fmt.Errorf("npc template %q: ranged attacks need range and power >= 1", t.ID)
			}
		}
	case KindColonist:
		if t.Colonist == nil {
			return fmt.Errorf("npc template %q: colonist kind needs a colonist block", t.ID)
		}
		if t.Health < 1 {
			return fmt.Errorf("npc template %q: colonists need health >= 1", t.ID)
		}
	case KindProp:
		if t.Prop == nil {
			return fmt.Errorf("npc template %q: prop kind needs a prop block", t.ID)
		}
		if tm := t.Prop.Timer; tm != nil {
			if tm.Ticks < 1 {
				return fmt.Errorf("npc template %q: timer ticks must be >= 1", t.ID)
			}
			switch tm.Kind {
			case "explode":
			case "hatch":
				if tm.Template == "" {
					return fmt.Errorf("npc template %q: hatch timer needs a template", t.ID)
				}
			default:
				return fmt.Errorf("npc template %q: unknown timer kind %q", t.ID, tm.Kind)
			}
		}
	case KindFriendly:
		if t.Friendly == nil {
			return fmt.Errorf("npc template %q: friendly kind needs a friendly block", t.ID)
		}
		if t.Health < 1 {
			return fmt.Errorf("npc template %q: friendlies need health >= 1", t.ID)
		}
	default:
		return fmt.Errorf("npc template %q: unknown kind %q", t.ID, t.Kind)
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
