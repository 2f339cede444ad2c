package world

// RGB is a color with components in [0, 1].
type RGB struct {
	R float32
	G float32
	B float32
}

// Palette entries used by tiles and entities.
var (
	Black     = RGB{}
	Grey      = RGB{R: 0.5, G: 0.5, B: 0.5}
	DarkGray  = RGB{R: 0.66, G: 0.66, B: 0.66}
	DarkRed   = RGB{R: 0.55}
	Red       = RGB{R: 1}
	Orange    = RGB{R: 1, G: 0.65}
	Yellow    = RGB{R: 1, G: 1}
	DarkCyan  = RGB{G: 0.55, B: 0.55}
	DarkGreen = RGB{G: 0.39}
	Brown     = RGB{R: 0.55, G: 0.27, B: 0.07}
	Scorched  = RGB{R: 0.2, G: 0.2, B: 0.2}
	Sand      = RGB{R: 0.76, G: 0.7, B: 0.5}
)

// Fade lowers every component by step, clamping at zero.
func (c RGB) Fade(step float32) RGB {
	return RGB{R: max(0, c.R-step), G: max(0, c.G-step), B: max(0, c.B-step)}
}

// Sum is R+G+B; splatter is discarded once it drops below a threshold.
func (c RGB) Sum() float32 { return c.R + c.G + c.B }

// ColorPair is a foreground/background pair.
type ColorPair struct {
	FG RGB
	BG RGB
}

var colorNames = map[string]RGB{
	"black":      Black,
	"grey":       Grey,
	"gray":       Grey,
	"dark_gray":  DarkGray,
	"dark_red":   DarkRed,
	"red":        Red,
	"orange":     Orange,
	"yellow":     Yellow,
	"dark_cyan":  DarkCyan,
	"dark_green": DarkGreen,
	"brown":      Brown,
	"scorched":   Scorched,
	"sand":       Sand,
}

// ColorByName looks up a palette entry by its snake_case name.
func ColorByName(name string) (RGB, bool) {
	c, ok := colorNames[name]
	return c, ok
}
