package styles

import (
	"image/color"
	"sort"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines the semantic colours of a theme. Editing, Selection and
// Amount colour the line-item grid; a palette that leaves them unset gets
// them derived from the base colours.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color

	Editing   color.Color // background of the row being edited
	Selection color.Color // foreground of selected rows
	Amount    color.Color // computed amount and totals

	Light bool // light background; markdown uses the light glamour style
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Editing:    lipgloss.Color("#2e3c64"),
		Selection:  lipgloss.Color("#73daca"),
		Amount:     lipgloss.Color("#ff9e64"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
		Editing:    lipgloss.Color("#504945"),
		Selection:  lipgloss.Color("#b8bb26"),
		Amount:     lipgloss.Color("#fe8019"),
	},
	"catppuccin": {
		Primary:    lipgloss.Color("#89b4fa"), // blue
		Secondary:  lipgloss.Color("#94e2d5"), // teal
		Foreground: lipgloss.Color("#cdd6f4"), // text
		Muted:      lipgloss.Color("#6c7086"), // overlay0
		Background: lipgloss.Color("#1e1e2e"), // base
		Surface:    lipgloss.Color("#313244"), // surface0
		Success:    lipgloss.Color("#a6e3a1"), // green
		Warning:    lipgloss.Color("#f9e2af"), // yellow
		Error:      lipgloss.Color("#f38ba8"), // red
		Editing:    lipgloss.Color("#45475a"), // surface1
		Selection:  lipgloss.Color("#a6e3a1"), // green
		Amount:     lipgloss.Color("#fab387"), // peach
	},
	"kanagawa": {
		Primary:    lipgloss.Color("#7E9CD8"), // crystalBlue
		Secondary:  lipgloss.Color("#7FB4CA"), // springBlue
		Foreground: lipgloss.Color("#DCD7BA"), // fujiWhite
		Muted:      lipgloss.Color("#727169"), // fujiGray
		Background: lipgloss.Color("#1F1F28"), // sumiInk1
		Surface:    lipgloss.Color("#2A2A37"), // sumiInk3
		Success:    lipgloss.Color("#76946A"), // autumnGreen
		Warning:    lipgloss.Color("#DCA561"), // autumnYellow
		Error:      lipgloss.Color("#C34043"), // autumnRed
		Editing:    lipgloss.Color("#2D4F67"), // waveBlue2
		Selection:  lipgloss.Color("#98BB6C"), // springGreen
		Amount:     lipgloss.Color("#FFA066"), // surimiOrange
	},
	"onedark": {
		Primary:    lipgloss.Color("#61afef"),
		Secondary:  lipgloss.Color("#56b6c2"),
		Foreground: lipgloss.Color("#abb2bf"),
		Muted:      lipgloss.Color("#5c6370"),
		Background: lipgloss.Color("#282c34"),
		Surface:    lipgloss.Color("#3e4452"),
		Success:    lipgloss.Color("#98c379"),
		Warning:    lipgloss.Color("#e5c07b"),
		Error:      lipgloss.Color("#e06c75"),
		Editing:    lipgloss.Color("#2c323c"),
		Selection:  lipgloss.Color("#98c379"),
		Amount:     lipgloss.Color("#d19a66"),
	},
	// Counter screens in bright offices.
	"ledger": {
		Primary:    lipgloss.Color("#1d4ed8"),
		Secondary:  lipgloss.Color("#0f766e"),
		Foreground: lipgloss.Color("#1f2937"),
		Muted:      lipgloss.Color("#6b7280"),
		Background: lipgloss.Color("#fafaf9"),
		Surface:    lipgloss.Color("#e7e5e4"),
		Success:    lipgloss.Color("#15803d"),
		Warning:    lipgloss.Color("#b45309"),
		Error:      lipgloss.Color("#b91c1c"),
		Light:      true,
	},
}

// complete fills unset grid colours by blending the base colours.
func (p Palette) complete() Palette {
	if p.Editing == nil {
		p.Editing = blend(p.Surface, p.Primary, 0.2)
	}
	if p.Selection == nil {
		p.Selection = p.Success
	}
	if p.Amount == nil {
		p.Amount = p.Primary
	}
	return p
}

// blend mixes a towards b by t in Lab space. A colour that cannot be
// converted yields a unchanged.
func blend(a, b color.Color, t float64) color.Color {
	if a == nil || b == nil {
		return a
	}
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name with every grid
// colour set.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	if !ok {
		return Palette{}, false
	}
	return p.complete(), true
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme,
// used by 'orders show'.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if CurrentPalette.Light {
		cfg = glamourstyles.LightStyleConfig
	}

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg
	cfg.Strong.Color = colorHexPtr(CurrentPalette.Amount)

	return cfg
}
