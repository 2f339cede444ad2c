package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/turn"
)

// console is the line-oriented front end run as a lifecycle service.
type console struct {
	game    *turn.Game
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	stopped atomic.Bool
}

func newConsole(game *turn.Game, in io.Reader, out io.Writer, logger *zap.Logger) *console {
	return &console{game: game, in: in, out: out, logger: logger}
}

// Start reads commands until input ends or Stop is called. "q" quits.
func (c *console) Start() error {
	c.show()
	sc := bufio.NewScanner(c.in)
	for !c.stopped.Load() && sc.Scan() {
		line := sc.Text()
		key := strings.TrimSpace(line)
		if line == " " {
			key = " "
		}
		if key == "q" {
			return nil
		}
		a, ok := turn.ParseAction(key)
		if !ok {
			fmt.Fprintf(c.out, "unknown command %q (w a s d, t, <, >, f, ., r, q)\n", key)
			continue
		}
		if err := c.game.Submit(a); err != nil {
			return fmt.Errorf("submitting %s: %w", a, err)
		}
		// a console has no frame clock: play effects out at once
		for c.game.AdvanceEffects() {
		}
		c.show()
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// Stop makes Start return after the current line.
func (c *console) Stop() {
	c.stopped.Store(true)
}

func (c *console) show() {
	if m := c.game.Modal(); m != nil {
		fmt.Fprintf(c.out, "== %s ==\n%s\n(press any key)\n", m.Title, m.Body)
		return
	}
	fmt.Fprintln(c.out, c.draw())
	fmt.Fprintln(c.out, statusLine(c.game.Status()))
}

// draw renders the current layer: revealed tiles, and entities on tiles the
// player can see right now.
func (c *console) draw() string {
	m := c.game.Map()
	layer := m.Current()
	w := c.game.World()

	grid := make([][]rune, layer.Height)
	for y := range grid {
		grid[y] = make([]rune, layer.Width)
		for x := range grid[y] {
			idx := y*layer.Width + x
			if layer.Revealed[idx] {
				grid[y][x] = layer.Tiles[idx].Glyph
			} else {
				grid[y][x] = ' '
			}
		}
	}
	for _, e := range ecs.Query(w, ecs.With[component.Position](), ecs.With[component.Glyph]()) {
		pos, _ := ecs.Get[component.Position](w, e)
		if pos.Layer != m.CurrentIndex() || !layer.InBounds(pos.Pt) || !layer.Visible[layer.Index(pos.Pt)] {
			continue
		}
		g, _ := ecs.Get[component.Glyph](w, e)
		grid[pos.Pt.Y][pos.Pt.X] = g.Rune
	}

	var sb strings.Builder
	for y, row := range grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
	}
	return sb.String()
}

func statusLine(s turn.Status) string {
	line := fmt.Sprintf("turn %d | %s | HP %d/%d | layer %d | HR %d | heard: %s",
		s.Turn, s.State, s.HP, s.MaxHP, s.Layer, s.HumanResources, s.Stats.LastHeard)
	if s.Target != "" {
		line += " | target: " + s.Target
	}
	if s.Outcome != turn.OutcomeNone {
		line += fmt.Sprintf(" | game over: %s (r to restart)", s.Outcome)
	}
	return line
}
