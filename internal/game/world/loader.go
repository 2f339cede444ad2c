package world

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlLayerFile is the top-level YAML structure for layer files.
type yamlLayerFile struct {
	Layers []yamlLayer `yaml:"layers"`
}

// yamlLayer is the YAML representation of one floor drawn as ASCII rows.
type yamlLayer struct {
	Depth int      `yaml:"depth"`
	Name  string   `yaml:"name"`
	Rows  []string `yaml:"rows"`
}

// Marker runes are floor tiles that also ask the populator for an entity.
const (
	MarkerShipExit = 'X'
	MarkerHealing  = 'H'
)

// Built is a parsed layer plus the marker positions found while drawing it.
type Built struct {
	Name    string
	Layer   *Layer
	Markers map[rune][]Point
}

// LoadLayersFromFile reads and validates every layer in a YAML file.
//
// Precondition: path must point to a readable YAML layer file.
// Postcondition: Returns layers ordered by depth or a non-nil error.
func LoadLayersFromFile(path string) ([]Built, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layer file %s: %w", path, err)
	}
	return LoadLayersFromBytes(data)
}

// LoadLayersFromBytes parses layers from YAML bytes.
//
// Legend: '#' wall, '.' floor, '%' window, '>' down stairs, '<' up stairs,
// '+' door, '~' outside, ':' capsule floor, ' ' empty rock, '@' start,
// 'E' colonist exit, 'X' ship exit marker, 'H' healing marker.
//
// Postcondition: depths are 0..n-1 with no gaps, every layer has a start
// point, and every layer has a colonist exit (defaulting to its up stairs,
// then its start).
func LoadLayersFromBytes(data []byte) ([]Built, error) {
	var file yamlLayerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing layer YAML: %w", err)
	}
	if len(file.Layers) == 0 {
		return nil, fmt.Errorf("layer file defines no layers")
	}
	out := make([]Built, 0, len(file.Layers))
	for _, yl := range file.Layers {
		b, err := convertYAMLLayer(yl)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Built) int { return a.Layer.Depth - b.Layer.Depth })
	for i, b := range out {
		if b.Layer.Depth != i {
			return nil, fmt.Errorf("layer depths must be 0..%d without gaps; found %d at position %d", len(out)-1, b.Layer.Depth, i)
		}
	}
	return out, nil
}

func convertYAMLLayer(yl yamlLayer) (Built, error) {
	if len(yl.Rows) == 0 {
		return Built{}, fmt.Errorf("layer %d: rows must not be empty", yl.Depth)
	}
	width := 0
	for _, r := range yl.Rows {
		width = max(width, len([]rune(r)))
	}
	l := NewLayer(yl.Depth, width, len(yl.Rows), EmptyTile())
	b := Built{Name: yl.Name, Layer: l, Markers: make(map[rune][]Point)}

	var haveStart, haveExit bool
	for y, row := range yl.Rows {
		for x, ch := range []rune(row) {
			p := Point{X: x, Y: y}
			switch ch {
			case '#':
				l.SetTile(p, WallTile())
			case '.':
				l.SetTile(p, FloorTile())
			case '%':
				l.SetTile(p, WindowTile())
			case '>':
				l.SetTile(p, StairsDownTile())
			case '<':
				l.SetTile(p, StairsUpTile())
			case '+':
				l.PlaceDoor(p)
			case '~':
				l.SetTile(p, OutsideTile())
			case ':':
				l.SetTile(p, CapsuleTile())
			case ' ':
			case '@':
				l.SetTile(p, CapsuleTile())
				l.Start = p
				haveStart = true
			case 'E':
				l.SetTile(p, FloorTile())
				l.ColonistExit = p
				haveExit = true
			case MarkerShipExit:
				l.SetTile(p, ExitTile())
				b.Markers[ch] = append(b.Markers[ch], p)
			case MarkerHealing:
				l.SetTile(p, FloorTile())
				b.Markers[ch] = append(b.Markers[ch], p)
			default:
				return Built{}, fmt.Errorf("layer %d: unknown tile %q at %d,%d", yl.Depth, ch, x, y)
			}
		}
	}
	if !haveStart {
		if up, ok := l.FindUpStairs(); ok {
			l.Start = up
			haveStart = true
		}
	}
	if !haveStart {
		return Built{}, fmt.Errorf("layer %d: no start point ('@' or '<')", yl.Depth)
	}
	if !haveExit {
		if up, ok := l.FindUpStairs(); ok {
			l.ColonistExit = up
		} else {
			l.ColonistExit = l.Start
		}
	}
	return b, nil
}

// Render draws the layer back as ASCII rows, for logs and tests.
func (l *Layer) Render() string {
	var sb strings.Builder
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			sb.WriteRune(l.Tiles[y*l.Width+x].Glyph)
		}
		if y < l.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
