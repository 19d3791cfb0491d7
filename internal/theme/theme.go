package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the palette used when no theme is configured.
const DefaultName = "castle"

// Token is a semantic color slot.
type Token string

const (
	ColorTextPrimary   Token = "text.primary"
	ColorTextSecondary Token = "text.secondary"
	ColorTextMuted     Token = "text.muted"
	ColorBorder        Token = "border"
	ColorSurface       Token = "surface"
	ColorPrimary       Token = "primary"
	ColorPrimaryText   Token = "primary.text"
	ColorAccent        Token = "accent"
	ColorSuccess       Token = "success"
	ColorWarning       Token = "warning"
	ColorWarningText   Token = "warning.text"
	ColorDanger        Token = "danger"
	ColorDangerText    Token = "danger.text"
)

// Color stores light and dark terminal variants.
type Color struct {
	Light string
	Dark  string
}

func (c Color) Adaptive() lipgloss.AdaptiveColor {
	light, dark := strings.TrimSpace(c.Light), strings.TrimSpace(c.Dark)
	if light == "" {
		light = dark
	}
	if dark == "" {
		dark = light
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

type Palette struct {
	Name        string
	DisplayName string
	Colors      map[Token]Color
}

func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok && (c.Light != "" || c.Dark != "") {
		return c
	}
	if p.Name != DefaultName {
		if def, ok := Get(DefaultName); ok {
			return def.Color(token)
		}
	}
	return Color{Light: "#000000", Dark: "#FFFFFF"}
}

func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

func (p Palette) BackgroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Adaptive(token))
}

// seed holds the handful of base colors every palette is derived from.
type seed struct {
	name, display            string
	text, surface, muted     string
	primary, accent          string
	success, warning, danger string
}

var seeds = []seed{
	{
		name: "castle", display: "Castle Stone",
		text: "#2B2A33", surface: "#F4F1EA", muted: "#8A8577",
		primary: "#B8860B", accent: "#4F6D7A",
		success: "#3A7D44", warning: "#D4A017", danger: "#B23A48",
	},
	{
		name: "forest", display: "Forest Keep",
		text: "#1E2B22", surface: "#EEF3EC", muted: "#6F7F6A",
		primary: "#2F6B3A", accent: "#8C6A3F",
		success: "#3F8F4F", warning: "#C98B1C", danger: "#A8322D",
	},
	{
		name: "dusk", display: "Dusk Tower",
		text: "#E6E1F0", surface: "#1E1B2E", muted: "#7B7494",
		primary: "#9A7BD8", accent: "#E0A458",
		success: "#6FBF73", warning: "#F2C14E", danger: "#EF6F6C",
	},
	{
		name: "mono", display: "Monochrome",
		text: "#1A1A1A", surface: "#FFFFFF", muted: "#808080",
		primary: "#404040", accent: "#606060",
		success: "#404040", warning: "#606060", danger: "#202020",
	},
}

var (
	registryOnce sync.Once
	registryMu   sync.RWMutex
	palettes     map[string]Palette
	current      string
)

func ensureRegistry() {
	registryOnce.Do(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		palettes = make(map[string]Palette, len(seeds))
		for _, s := range seeds {
			palettes[s.name] = fromSeed(s)
		}
		current = DefaultName
	})
}

// Available returns the registered theme names, sorted.
func Available() []string {
	ensureRegistry()
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (Palette, bool) {
	ensureRegistry()
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := palettes[sanitizeName(name)]
	return p, ok
}

func SetCurrent(name string) error {
	ensureRegistry()
	name = sanitizeName(name)
	if name == "" {
		name = DefaultName
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := palettes[name]; !ok {
		return fmt.Errorf("unknown theme %q, must be one of %s", name, strings.Join(sortedKeys(), ", "))
	}
	current = name
	return nil
}

func Current() Palette {
	ensureRegistry()
	registryMu.RLock()
	defer registryMu.RUnlock()
	return palettes[current]
}

// Cycle makes the theme after the current one active and returns it.
func Cycle() Palette {
	names := Available()
	cur := Current().Name
	next := names[0]
	for i, name := range names {
		if name == cur {
			next = names[(i+1)%len(names)]
			break
		}
	}
	_ = SetCurrent(next)
	return Current()
}

func sortedKeys() []string {
	keys := make([]string, 0, len(palettes))
	for k := range palettes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// fromSeed derives the full token set. Dark variants are lifted toward white
// so that text stays legible on dark terminals.
func fromSeed(s seed) Palette {
	pair := func(hex string) Color {
		return Color{Light: hex, Dark: lighten(hex, 0.25)}
	}
	onColor := func(hex string) Color {
		c := contrast(hex)
		return Color{Light: c, Dark: c}
	}
	return Palette{
		Name:        s.name,
		DisplayName: s.display,
		Colors: map[Token]Color{
			ColorTextPrimary:   {Light: s.text, Dark: lighten(s.text, 0.85)},
			ColorTextSecondary: {Light: lighten(s.text, 0.25), Dark: lighten(s.text, 0.65)},
			ColorTextMuted:     {Light: s.muted, Dark: lighten(s.muted, 0.2)},
			ColorBorder:        {Light: darken(s.muted, 0.1), Dark: lighten(s.muted, 0.1)},
			ColorSurface:       {Light: s.surface, Dark: darken(s.surface, 0.85)},
			ColorPrimary:       pair(s.primary),
			ColorPrimaryText:   onColor(s.primary),
			ColorAccent:        pair(s.accent),
			ColorSuccess:       pair(s.success),
			ColorWarning:       pair(s.warning),
			ColorWarningText:   onColor(s.warning),
			ColorDanger:        pair(s.danger),
			ColorDangerText:    onColor(s.danger),
		},
	}
}

func lighten(hex string, amount float64) string {
	return blend(hex, colorful.Color{R: 1, G: 1, B: 1}, amount)
}

func darken(hex string, amount float64) string {
	return blend(hex, colorful.Color{}, amount)
}

func blend(hex string, toward colorful.Color, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	amount = max(0, min(1, amount))
	return strings.ToUpper(c.BlendLab(toward, amount).Clamped().Hex())
}

func contrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#121418"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.4 {
		return "#121418"
	}
	return "#F8F8F8"
}
