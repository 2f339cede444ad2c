package npc

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// DefaultFOVRadius is used by creatures and allies whose template omits fov_radius.
const DefaultFOVRadius = 6

// Spawner turns templates into entities.
//
// Invariant: every template ID is registered at most once.
type Spawner struct {
	templates map[string]*Template
	logger    *zap.Logger
}

// NewSpawner indexes templates by ID.
//
// Precondition: logger must be non-nil.
// Postcondition: returns an error on duplicate IDs or a hatch timer naming an
// unknown template.
func NewSpawner(templates []*Template, logger *zap.Logger) (*Spawner, error) {
	s := &Spawner{templates: make(map[string]*Template, len(templates)), logger: logger}
	for _, t := range templates {
		if _, dup := s.templates[t.ID]; dup {
			return nil, fmt.Errorf("npc: duplicate template ID %q", t.ID)
		}
		s.templates[t.ID] = t
	}
	for _, t := range templates {
		if t.Prop != nil && t.Prop.Timer != nil && t.Prop.Timer.Kind == "hatch" {
			if _, ok := s.templates[t.Prop.Timer.Template]; !ok {
				return nil, fmt.Errorf("npc template %q: hatch template %q is not loaded", t.ID, t.Prop.Timer.Template)
			}
		}
	}
	return s, nil
}

// Template returns the template registered under id.
func (s *Spawner) Template(id string) (*Template, bool) {
	t, ok := s.templates[id]
	return t, ok
}

// IDs lists the registered template IDs in sorted order.
func (s *Spawner) IDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn creates an entity from template id at pos.
func (s *Spawner) Spawn(w *ecs.World, id string, pos component.Position) (ecs.Entity, error) {
	comps, err := s.Components(id, pos)
	if err != nil {
		return ecs.NoEntity, err
	}
	return w.Spawn(comps...), nil
}

// Hatch queues an awake copy of template id at pos.
func (s *Spawner) Hatch(cmds *ecs.Commands, id string, pos component.Position) error {
	comps, err := s.Components(id, pos)
	if err != nil {
		return err
	}
	for i, c := range comps {
		if _, ok := c.(component.CanBeActivated); ok {
			comps[i] = component.Active{}
		}
	}
	cmds.Spawn(comps...)
	s.logger.Debug("hatching", zap.String("template", id), zap.Int("layer", pos.Layer),
		zap.Int("x", pos.Pt.X), zap.Int("y", pos.Pt.Y))
	return nil
}

// Components returns the component set template id produces at pos.
func (s *Spawner) Components(id string, pos component.Position) ([]any, error) {
	t, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("npc: unknown template %q", id)
	}
	fg, _ := world.ColorByName(t.FG)
	bg, _ := world.ColorByName(t.BG)
	comps := []any{
		pos,
		component.Name(t.Name),
		component.Glyph{Rune: []rune(t.Glyph)[0], Color: world.ColorPair{FG: fg, BG: bg}},
	}
	if t.Description != "" {
		comps = append(comps, component.Description(t.Description))
	}
	if t.Awake {
		comps = append(comps, component.Active{})
	} else {
		comps = append(comps, component.CanBeActivated{})
	}
	if t.Blood != "" {
		blood, _ := world.ColorByName(t.Blood)
		comps = append(comps, component.Blood{Color: blood})
	}
	if t.Targetable {
		comps = append(comps, component.Targetable{})
	}
	if len(t.Dialog) > 0 {
		comps = append(comps, component.Dialog{Lines: append([]string(nil), t.Dialog...)})
	}
	alive := t.Health > 0

	switch t.Kind {
	case KindHostile:
		comps = append(comps, hostileFrom(t.Hostile), component.FieldOfView{Radius: radiusOr(t.FOVRadius)})
	case KindFriendly:
		comps = append(comps,
			component.Friendly{Power: t.Friendly.Power, Announced: make(map[string]bool)},
			component.FieldOfView{Radius: radiusOr(t.FOVRadius)})
	case KindColonist:
		status := component.StatusUnknown
		if t.Colonist.StartedDead {
			status = component.StatusStartedDead
			alive = false
			comps = corpseOf(comps)
		}
		comps = append(comps, status, component.Colonist{Weapon: t.Colonist.Weapon})
		if t.FOVRadius > 0 {
			comps = append(comps, component.FieldOfView{Radius: t.FOVRadius})
		}
	case KindProp:
		comps = append(comps, component.PropertyValue(t.Prop.Value))
		if t.Prop.Decoration {
			comps = append(comps, component.SetDecoration{})
		}
		if t.Prop.ExplosiveRange > 0 {
			comps = append(comps, component.Explosive{Range: t.Prop.ExplosiveRange})
		}
		if tm := t.Prop.Timer; tm != nil {
			ev := component.TimedEvent{Timer: tm.Ticks, Range: tm.Range, Template: tm.Template}
			if tm.Kind == "hatch" {
				ev.Kind = component.EventHatch
			}
			comps = append(comps, ev)
		}
	}
	if alive {
		comps = append(comps, component.Health{Current: t.Health, Max: t.Health})
	}
	return comps, nil
}

func hostileFrom(h *HostileSpec) component.Hostile {
	out := component.Hostile{Domain: h.Domain}
	if h.Aggro == "player" {
		out.Aggro = component.AggroPlayer
	}
	for _, d := range h.Melee {
		out.Melee = append(out.Melee, component.MeleeAttack{Damage: d})
	}
	for _, r := range h.Ranged {
		out.Ranged = append(out.Ranged, component.RangedAttack{Range: r.Range, Power: r.Power})
	}
	return out
}

func radiusOr(r int) int {
	if r > 0 {
		return r
	}
	return DefaultFOVRadius
}

// corpseOf rewrites name, glyph and activity for a body placed at map creation.
func corpseOf(comps []any) []any {
	out := comps[:0]
	for _, c := range comps {
		switch v := c.(type) {
		case component.Name:
			out = append(out, component.Name("Corpse: "+string(v)))
		case component.Glyph:
			v.Color = world.ColorPair{FG: world.DarkGray, BG: world.DarkRed}
			out = append(out, v)
		case component.Targetable, component.Dialog, component.Blood:
		default:
			out = append(out, c)
		}
	}
	return out
}
