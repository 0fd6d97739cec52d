package ircview

import (
	"strings"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"

	"git.sr.ht/~delthas/ircview/ui"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BadgeResetDelay != 500*time.Millisecond || cfg.BlinkInterval != 500*time.Millisecond {
		t.Errorf("unexpected default delays %v %v", cfg.BadgeResetDelay, cfg.BlinkInterval)
	}
	if len(cfg.BadgeExceptions) != 1 || cfg.BadgeExceptions[0] != (ui.BadgeException{Nick: "***", Ident: "znc"}) {
		t.Errorf("unexpected default badge exceptions %v", cfg.BadgeExceptions)
	}
	if cfg.NamesPerRow != 10 {
		t.Errorf("unexpected default names per row %d", cfg.NamesPerRow)
	}
	if cfg.Colors != ui.DefaultPalette {
		t.Errorf("unexpected default palette %+v", cfg.Colors)
	}
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`
nickname alice
badge-reset-delay 1s
blink-interval 250ms
badge-exception *status znc
badge-exception bot bot
names-per-row 5
scrollback 0
notify true
notify-rate 0s
nick-colors {
	saturation 200
	lightness 100
}
colors {
	text 7
	highlight #ff0000
	highlighted-text -1
}
debug true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Nick != "alice" {
		t.Errorf("unexpected nick %q", cfg.Nick)
	}
	if cfg.BadgeResetDelay != time.Second || cfg.BlinkInterval != 250*time.Millisecond {
		t.Errorf("unexpected delays %v %v", cfg.BadgeResetDelay, cfg.BlinkInterval)
	}
	expected := []ui.BadgeException{{Nick: "*status", Ident: "znc"}, {Nick: "bot", Ident: "bot"}}
	if len(cfg.BadgeExceptions) != len(expected) {
		t.Fatalf("unexpected badge exceptions %v", cfg.BadgeExceptions)
	}
	for i := range expected {
		if cfg.BadgeExceptions[i] != expected[i] {
			t.Errorf("unexpected badge exceptions %v", cfg.BadgeExceptions)
		}
	}
	if cfg.NamesPerRow != 5 || cfg.Scrollback != 0 {
		t.Errorf("unexpected sizes %d %d", cfg.NamesPerRow, cfg.Scrollback)
	}
	if !cfg.Notify || cfg.NotifyRate != 0 || !cfg.Debug {
		t.Errorf("unexpected flags %+v", cfg)
	}
	if cfg.NickColors != (ui.NickColors{Saturation: 200, DimSaturation: 0, Lightness: 100}) {
		t.Errorf("unexpected nick colors %+v", cfg.NickColors)
	}
	if cfg.Colors.Text != vaxis.IndexColor(7) ||
		cfg.Colors.DisabledText != ui.DefaultPalette.DisabledText ||
		cfg.Colors.Highlight != vaxis.HexColor(0xff0000) ||
		cfg.Colors.HighlightedText != ui.ColorDefault {
		t.Errorf("unexpected colors %+v", cfg.Colors)
	}

	tc := cfg.TreeConfig()
	if tc.ResetDelay != time.Second || len(tc.BadgeExceptions) != 2 || tc.Palette != cfg.Colors {
		t.Errorf("unexpected tree config %+v", tc)
	}
}

func TestReadConfigErrors(t *testing.T) {
	for _, input := range []string{
		"unknown-directive 1",
		"badge-reset-delay soon",
		"badge-reset-delay -1s",
		"blink-interval 0s",
		"names-per-row 0",
		"scrollback -1",
		"notify maybe",
		"nick-colors {\n\tsaturation 300\n}",
		"nick-colors {\n\thue 3\n}",
		"colors {\n\ttext 256\n}",
		"colors {\n\tborder 1\n}",
		"nickname",
	} {
		if _, err := ReadConfig(strings.NewReader(input)); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}
