package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Heading   *color.Color
	InfoKey   *color.Color
	InfoValue *color.Color
	Fail      *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Heading:   color.New(color.FgCyan, color.Bold),
		InfoKey:   color.New(color.FgYellow),
		InfoValue: color.New(color.FgWhite),
		Fail:      color.New(color.FgRed, color.Bold),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Heading.DisableColor()
	scheme.InfoKey.DisableColor()
	scheme.InfoValue.DisableColor()
	scheme.Fail.DisableColor()
	scheme.Highlight.DisableColor()

	return scheme
}

// SchemeFor returns NoColorScheme when noColor is set. Otherwise colors are
// always emitted, whatever fatih/color detected for os.Stdout; callers decide
// with ColorEnabled.
func SchemeFor(noColor bool) *ColorScheme {
	if noColor {
		return NoColorScheme()
	}
	return DefaultColorScheme().forced()
}

func (s *ColorScheme) forced() *ColorScheme {
	for _, c := range []*color.Color{s.Heading, s.InfoKey, s.InfoValue, s.Fail, s.Highlight} {
		c.EnableColor()
	}
	return s
}
