package ircview

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~emersion/go-scfg"
	"git.sr.ht/~rockorager/vaxis"

	"git.sr.ht/~delthas/ircview/ui"
)

func parseColor(s string, c *vaxis.Color) error {
	if strings.HasPrefix(s, "#") {
		hex, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return err
		}

		*c = vaxis.HexColor(uint32(hex))
		return nil
	}

	code, err := strconv.Atoi(s)
	if err != nil {
		return err
	}

	if code == -1 {
		*c = ui.ColorDefault
		return nil
	}

	if code < 0 || code > 255 {
		return fmt.Errorf("color code must be between 0-255. If you meant to use true colors, use #aabbcc notation")
	}

	*c = vaxis.IndexColor(uint8(code))

	return nil
}

func parseDuration(d *scfg.Directive, v *time.Duration) error {
	var s string
	if err := d.ParseParams(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("directive %q: %v", d.Name, err)
	}
	if dur < 0 {
		return fmt.Errorf("directive %q: duration must be positive", d.Name)
	}
	*v = dur
	return nil
}

func parseInt(d *scfg.Directive, v *int) error {
	var s string
	if err := d.ParseParams(&s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("directive %q: %v", d.Name, err)
	}
	*v = n
	return nil
}

func parseBool(d *scfg.Directive, v *bool) error {
	var s string
	if err := d.ParseParams(&s); err != nil {
		return err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("directive %q: %v", d.Name, err)
	}
	*v = b
	return nil
}

type Config struct {
	Nick string

	BadgeResetDelay time.Duration
	BlinkInterval   time.Duration
	BadgeExceptions []ui.BadgeException

	NamesPerRow int
	Scrollback  int

	Notify     bool
	NotifyRate time.Duration

	NickColors ui.NickColors
	Colors     ui.Palette

	Debug bool
}

func Defaults() Config {
	return Config{
		Nick:            "",
		BadgeResetDelay: 500 * time.Millisecond,
		BlinkInterval:   500 * time.Millisecond,
		BadgeExceptions: append([]ui.BadgeException(nil), ui.DefaultBadgeExceptions...),
		NamesPerRow:     10,
		Scrollback:      1000,
		Notify:          false,
		NotifyRate:      2 * time.Second,
		NickColors:      ui.DefaultNickColors,
		Colors:          ui.DefaultPalette,
		Debug:           false,
	}
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return Defaults(), err
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig parses a configuration over the defaults.
func ReadConfig(r io.Reader) (cfg Config, err error) {
	cfg = Defaults()
	directives, err := scfg.Read(r)
	if err != nil {
		return cfg, fmt.Errorf("error parsing scfg: %s", err)
	}
	if err := unmarshal(directives, &cfg); err != nil {
		return cfg, err
	}
	if cfg.NamesPerRow <= 0 {
		return cfg, fmt.Errorf("names-per-row must be positive")
	}
	if cfg.Scrollback < 0 {
		return cfg, fmt.Errorf("scrollback must not be negative")
	}
	return cfg, nil
}

func unmarshal(directives scfg.Block, cfg *Config) (err error) {
	exceptionsSet := false
	for _, d := range directives {
		switch d.Name {
		case "nickname":
			if err := d.ParseParams(&cfg.Nick); err != nil {
				return err
			}
		case "badge-reset-delay":
			if err := parseDuration(d, &cfg.BadgeResetDelay); err != nil {
				return err
			}
		case "blink-interval":
			if err := parseDuration(d, &cfg.BlinkInterval); err != nil {
				return err
			}
			if cfg.BlinkInterval == 0 {
				return fmt.Errorf("blink-interval must not be zero")
			}
		case "badge-exception":
			var e ui.BadgeException
			if err := d.ParseParams(&e.Nick, &e.Ident); err != nil {
				return err
			}
			// The first directive replaces the defaults.
			if !exceptionsSet {
				cfg.BadgeExceptions = nil
				exceptionsSet = true
			}
			cfg.BadgeExceptions = append(cfg.BadgeExceptions, e)
		case "names-per-row":
			if err := parseInt(d, &cfg.NamesPerRow); err != nil {
				return err
			}
		case "scrollback":
			if err := parseInt(d, &cfg.Scrollback); err != nil {
				return err
			}
		case "notify":
			if err := parseBool(d, &cfg.Notify); err != nil {
				return err
			}
		case "notify-rate":
			if err := parseDuration(d, &cfg.NotifyRate); err != nil {
				return err
			}
		case "nick-colors":
			for _, child := range d.Children {
				var v int
				if err := parseInt(child, &v); err != nil {
					return err
				}
				if v < 0 || v > 255 {
					return fmt.Errorf("directive %q: value must be between 0-255", child.Name)
				}
				switch child.Name {
				case "saturation":
					cfg.NickColors.Saturation = v
				case "dim-saturation":
					cfg.NickColors.DimSaturation = v
				case "lightness":
					cfg.NickColors.Lightness = v
				default:
					return fmt.Errorf("unknown directive %q", child.Name)
				}
			}
		case "colors":
			for _, child := range d.Children {
				var colorStr string
				if err := child.ParseParams(&colorStr); err != nil {
					return err
				}

				var color vaxis.Color
				if err = parseColor(colorStr, &color); err != nil {
					return err
				}
				switch child.Name {
				case "text":
					cfg.Colors.Text = color
				case "disabled-text":
					cfg.Colors.DisabledText = color
				case "highlight":
					cfg.Colors.Highlight = color
				case "highlighted-text":
					cfg.Colors.HighlightedText = color
				default:
					return fmt.Errorf("unknown directive %q", child.Name)
				}
			}
		case "debug":
			if err := parseBool(d, &cfg.Debug); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown directive %q", d.Name)
		}
	}

	return
}

// TreeConfig returns the buffer tree settings of cfg.
func (cfg Config) TreeConfig() ui.TreeConfig {
	return ui.TreeConfig{
		ResetDelay:      cfg.BadgeResetDelay,
		BadgeExceptions: cfg.BadgeExceptions,
		Palette:         cfg.Colors,
	}
}
