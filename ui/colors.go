package ui

import (
	"fmt"
	"hash/fnv"

	"git.sr.ht/~rockorager/vaxis"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/net/html"
)

var ColorDefault = vaxis.Color(0)
var ColorRed = vaxis.IndexColor(9)
var ColorGray = vaxis.IndexColor(8)
var ColorBlue = vaxis.IndexColor(4)
var ColorWhite = vaxis.IndexColor(15)

// Palette holds the colors of the buffer tree roles. ColorDefault leaves a
// role to the renderer.
type Palette struct {
	Text            vaxis.Color
	DisabledText    vaxis.Color
	Highlight       vaxis.Color
	HighlightedText vaxis.Color
}

var DefaultPalette = Palette{
	Text:            ColorDefault,
	DisabledText:    ColorGray,
	Highlight:       ColorBlue,
	HighlightedText: ColorWhite,
}

type Style int

const (
	StyleBold Style = 1 << iota
	StyleColor
	StyleDim
)

// NickColors derives a stable color from a nickname. Saturation and
// lightness are on a 0-255 scale.
type NickColors struct {
	Saturation    int
	DimSaturation int
	Lightness     int
}

var DefaultNickColors = NickColors{
	Saturation:    102,
	DimSaturation: 0,
	Lightness:     134,
}

// Hue returns the hue of text, in degrees.
func Hue(text string) int {
	h := fnv.New32()
	_, _ = h.Write([]byte(text))
	return int(h.Sum32() % 359)
}

// Hex returns the #rrggbb color of text.
func (nc NickColors) Hex(text string, dim bool) string {
	s := nc.Saturation
	if dim {
		s = nc.DimSaturation
	}
	c := colorful.Hsl(float64(Hue(text)), float64(s)/255, float64(nc.Lightness)/255)
	return c.Clamped().Hex()
}

// Styled renders text as HTML with the given style. Bold wraps the text in
// <b>; Color and Dim wrap it in a <font> of its hue.
func (nc NickColors) Styled(text string, style Style) string {
	s := html.EscapeString(text)
	if style&StyleBold != 0 {
		s = fmt.Sprintf("<b>%s</b>", s)
	}
	if style&(StyleColor|StyleDim) != 0 {
		s = fmt.Sprintf("<font color='%s'>%s</font>", nc.Hex(text, style&StyleDim != 0), s)
	}
	return s
}
