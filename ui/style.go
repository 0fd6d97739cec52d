package ui

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"mvdan.cc/xurls/v2"
)

// TextFormat converts message text to display markup.
type TextFormat interface {
	HTML(text string) string
}

// Taken from <https://modern.ircdocs.horse/formatting.html>

var colorNames = []string{
	"white",
	"black",
	"blue",
	"green",
	"red",
	"brown",
	"purple",
	"orange",
	"yellow",
	"lightgreen",
	"cyan",
	"lightcyan",
	"lightblue",
	"pink",
	"gray",
	"lightgray",
}

var hexCodes = []uint32{
	0x470000, 0x472100, 0x474700, 0x324700, 0x004700, 0x00472c, 0x004747, 0x002747, 0x000047, 0x2e0047, 0x470047, 0x47002a,
	0x740000, 0x743a00, 0x747400, 0x517400, 0x007400, 0x007449, 0x007474, 0x004074, 0x000074, 0x4b0074, 0x740074, 0x740045,
	0xb50000, 0xb56300, 0xb5b500, 0x7db500, 0x00b500, 0x00b571, 0x00b5b5, 0x0063b5, 0x0000b5, 0x7500b5, 0xb500b5, 0xb5006b,
	0xff0000, 0xff8c00, 0xffff00, 0xb2ff00, 0x00ff00, 0x00ffa0, 0x00ffff, 0x008cff, 0x0000ff, 0xa500ff, 0xff00ff, 0xff0098,
	0xff5959, 0xffb459, 0xffff71, 0xcfff60, 0x6fff6f, 0x65ffc9, 0x6dffff, 0x59b4ff, 0x5959ff, 0xc459ff, 0xff66ff, 0xff59bc,
	0xff9c9c, 0xffd39c, 0xffff9c, 0xe2ff9c, 0x9cff9c, 0x9cffdb, 0x9cffff, 0x9cd3ff, 0x9c9cff, 0xdc9cff, 0xff9cff, 0xff94d3,
	0x000000, 0x131313, 0x282828, 0x363636, 0x4d4d4d, 0x656565, 0x818181, 0x9f9f9f, 0xbcbcbc, 0xe2e2e2, 0xffffff,
}

// color is either a palette code (0-98) or an RGB value, or unset.
type color struct {
	set  bool
	code int
	rgb  uint32
	hex  bool
}

var colorUnset = color{}

func colorFromCode(code int) color {
	if code < 0 || 99 <= code {
		return colorUnset
	}
	return color{set: true, code: code}
}

// class returns the CSS class of palette colors, and "" for other colors.
func (c color) class() string {
	if !c.set || c.hex || c.code >= 16 {
		return ""
	}
	return colorNames[c.code]
}

// css returns the #rrggbb value of extended and hex colors, and "" for
// palette colors.
func (c color) css() string {
	if !c.set {
		return ""
	}
	if c.hex {
		return fmt.Sprintf("#%06x", c.rgb)
	}
	if c.code >= 16 {
		return fmt.Sprintf("#%06x", hexCodes[c.code-16])
	}
	return ""
}

type textStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Reverse   bool
	Monospace bool
	Fg        color
	Bg        color
}

func (st textStyle) isZero() bool {
	return st == textStyle{}
}

// openTag returns the <span> opening tag for st.
func (st textStyle) openTag() string {
	var classes []string
	for _, f := range []struct {
		on    bool
		class string
	}{
		{st.Bold, "bold"},
		{st.Italic, "italic"},
		{st.Underline, "underline"},
		{st.Strike, "strikethrough"},
		{st.Reverse, "reverse"},
		{st.Monospace, "monospace"},
	} {
		if f.on {
			classes = append(classes, f.class)
		}
	}
	if c := st.Fg.class(); c != "" {
		classes = append(classes, c)
	}
	if c := st.Bg.class(); c != "" {
		classes = append(classes, c+"-background")
	}
	var css []string
	if c := st.Fg.css(); c != "" {
		css = append(css, "color:"+c)
	}
	if c := st.Bg.css(); c != "" {
		css = append(css, "background-color:"+c)
	}

	var sb strings.Builder
	sb.WriteString("<span")
	if len(classes) > 0 {
		fmt.Fprintf(&sb, " class='%s'", strings.Join(classes, " "))
	}
	if len(css) > 0 {
		fmt.Fprintf(&sb, " style='%s;'", strings.Join(css, ";"))
	}
	sb.WriteString(">")
	return sb.String()
}

type rangedStyle struct {
	Start int // byte index at which Style is effective
	Style textStyle
}

// StyledString is text stripped of its formatting codes, along with the
// styles applied to it.
type StyledString struct {
	string
	styles []rangedStyle // sorted, elements cannot have the same Start value
}

func (s StyledString) String() string {
	return s.string
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func parseColorNumber(raw string) (c color, n int) {
	if len(raw) == 0 || !isDigit(raw[0]) {
		return
	}

	// len(raw) >= 1 and its first character is a digit.

	if len(raw) == 1 || !isDigit(raw[1]) {
		code, _ := strconv.Atoi(raw[:1])
		return colorFromCode(code), 1
	}

	// len(raw) >= 2 and the two first characters are digits.

	code, _ := strconv.Atoi(raw[:2])
	return colorFromCode(code), 2
}

func parseColor(raw string) (fg, bg color, n int) {
	fg, n = parseColorNumber(raw)
	raw = raw[n:]

	if len(raw) == 0 || raw[0] != ',' {
		return fg, colorUnset, n
	}

	n++
	bg, p := parseColorNumber(raw[1:])
	n += p

	if p == 0 {
		// Lone comma, do not parse as part of a color code.
		return fg, colorUnset, n - 1
	}

	return fg, bg, n
}

func parseHexColorNumber(raw string) (c color, n int) {
	if len(raw) < 6 {
		return
	}
	if raw[0] == '+' || raw[0] == '-' {
		return
	}
	value, err := strconv.ParseUint(raw[:6], 16, 32)
	if err != nil {
		return
	}
	return color{set: true, hex: true, rgb: uint32(value)}, 6
}

func parseHexColor(raw string) (fg, bg color, n int) {
	fg, n = parseHexColorNumber(raw)
	raw = raw[n:]

	if len(raw) == 0 || raw[0] != ',' {
		return fg, colorUnset, n
	}

	n++
	bg, p := parseHexColorNumber(raw[1:])
	n += p

	if p == 0 {
		// Lone comma, do not parse as part of a color code.
		return fg, colorUnset, n - 1
	}

	return fg, bg, n
}

// IRCString parses the formatting codes of raw.
func IRCString(raw string) StyledString {
	var formatted strings.Builder
	var styles []rangedStyle
	var last textStyle

	for len(raw) != 0 {
		r, runeSize := utf8.DecodeRuneInString(raw)
		current := last
		if r == 0x0F {
			current = textStyle{}
		} else if r == 0x02 {
			current.Bold = !current.Bold
		} else if r == 0x03 || r == 0x04 {
			var fg, bg color
			var n int
			if r == 0x03 {
				fg, bg, n = parseColor(raw[1:])
			} else {
				fg, bg, n = parseHexColor(raw[1:])
			}
			raw = raw[n:]
			if n == 0 {
				current.Fg = colorUnset
				current.Bg = colorUnset
			} else if !bg.set {
				current.Fg = fg
			} else {
				current.Fg = fg
				current.Bg = bg
			}
		} else if r == 0x11 {
			current.Monospace = !current.Monospace
		} else if r == 0x16 {
			current.Reverse = !current.Reverse
		} else if r == 0x1D {
			current.Italic = !current.Italic
		} else if r == 0x1E {
			current.Strike = !current.Strike
		} else if r == 0x1F {
			current.Underline = !current.Underline
		} else {
			formatted.WriteRune(r)
		}
		if last != current {
			if len(styles) != 0 && styles[len(styles)-1].Start == formatted.Len() {
				styles[len(styles)-1] = rangedStyle{
					Start: formatted.Len(),
					Style: current,
				}
			} else {
				styles = append(styles, rangedStyle{
					Start: formatted.Len(),
					Style: current,
				})
			}
		}
		last = current
		raw = raw[runeSize:]
	}

	return StyledString{
		string: formatted.String(),
		styles: styles,
	}
}

// StripCodes removes the formatting codes of raw.
func StripCodes(raw string) string {
	return IRCString(raw).string
}

var urlRegex *regexp.Regexp

func init() {
	urlRegex, _ = xurls.StrictMatchingScheme(xurls.AnyScheme)
	urlRegex = regexp.MustCompile(urlRegex.String() + `|#[\p{L}0-9#.-]*[\p{L}0-9]`)
	urlRegex.Longest()
}

type link struct {
	Start, End int
	Href       string
}

func lastRuneBefore(s string, i int) rune {
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// links returns the URLs and channel names found in s.
func (s StyledString) links() []link {
	if !strings.ContainsAny(s.string, ".#") {
		// fast path: no URL
		return nil
	}
	var links []link
	for _, u := range urlRegex.FindAllStringIndex(s.string, -1) {
		l := s.string[u[0]:u[1]]
		var href string
		if l[0] == '#' {
			if prev := lastRuneBefore(s.string, u[0]); !(prev == 0 || unicode.IsSpace(prev) || prev == '(' || prev == '[') {
				// channel link preceded by a non-space character: eg a#a: drop
				continue
			}
			if !strings.ContainsFunc(l[1:], func(r rune) bool {
				return r < '0' || r > '9'
			}) {
				// channel link with only numbers: eg #1234: drop, because this is likely a reference to a ticket
				continue
			}
			href = "channel:" + l
		} else {
			if u, err := url.Parse(l); err != nil || u.Scheme == "" {
				l = "https://" + l
			}
			href = l
		}
		links = append(links, link{
			Start: u[0],
			End:   u[1],
			Href:  href,
		})
	}
	return links
}

// HTML renders s as HTML: styles become <span> elements, URLs and channel
// names become <a> elements.
func (s StyledString) HTML() string {
	links := s.links()

	// Collect every offset at which the output must change.
	cuts := make([]int, 0, len(s.styles)+2*len(links)+2)
	cuts = append(cuts, 0)
	for _, st := range s.styles {
		cuts = append(cuts, st.Start)
	}
	for _, l := range links {
		cuts = append(cuts, l.Start, l.End)
	}
	cuts = append(cuts, len(s.string))
	sort.Ints(cuts)

	var sb strings.Builder
	sb.Grow(len(s.string) * 2)
	var style textStyle
	si, li := 0, 0
	inLink := false
	for i := 0; i < len(cuts)-1; i++ {
		start, end := cuts[i], cuts[i+1]
		if start == end {
			continue
		}
		for si < len(s.styles) && s.styles[si].Start <= start {
			style = s.styles[si].Style
			si++
		}
		if inLink && links[li].End <= start {
			sb.WriteString("</a>")
			inLink = false
			li++
		}
		if !inLink && li < len(links) && links[li].Start <= start {
			fmt.Fprintf(&sb, "<a href='%s'>", html.EscapeString(links[li].Href))
			inLink = true
		}
		text := EscapeText(s.string[start:end])
		if style.isZero() {
			sb.WriteString(text)
		} else {
			sb.WriteString(style.openTag())
			sb.WriteString(text)
			sb.WriteString("</span>")
		}
	}
	if inLink {
		sb.WriteString("</a>")
	}
	return sb.String()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes s as HTML text content. Quotes are kept as is, so that
// word boundaries can be computed on the rendered text.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// IRCFormat is the TextFormat of IRC formatting codes.
type IRCFormat struct{}

func (IRCFormat) HTML(text string) string {
	return IRCString(text).HTML()
}
