package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"git.sr.ht/~delthas/ircview"
	"git.sr.ht/~delthas/ircview/irc"
)

func main() {
	var configPath string
	var debug bool
	var version bool
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.BoolVar(&debug, "debug", false, "log debug information to stderr")
	flag.BoolVar(&version, "version", false, "show version info")
	flag.Parse()

	if version {
		if v, ok := ircview.BuildVersion(); ok {
			fmt.Printf("ircview version %v\n", v)
		} else {
			fmt.Printf("ircview (unknown version)\n")
		}
		return
	}

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}
		configPath = path.Join(configDir, "ircview", "ircview.scfg")
	}

	cfg, err := ircview.LoadConfigFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to load the configuration file at %q: %s\n", configPath, err)
			os.Exit(1)
			return
		}
		cfg = ircview.Defaults()
	}
	cfg.Debug = cfg.Debug || debug

	var script io.Reader = os.Stdin
	if name := flag.Arg(0); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open script: %s\n", err)
			os.Exit(1)
			return
		}
		defer f.Close()
		script = f
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	r := newReplayer(cfg, os.Stdout)
	app, err := ircview.NewApp(cfg, ircview.Options{
		Logger: logger,
		Output: r.output,
		OnQuery: func(conn *irc.Connection, nick string) {
			logger.Info("query requested", "connection", conn.String(), "nick", nick)
		},
		OnJoin: func(conn *irc.Connection, channel string) {
			logger.Info("join requested", "connection", conn.String(), "channel", channel)
		},
		OnOpenLink: func(link string) {
			logger.Info("open link requested", "link", link)
		},
		OnBufferClosed: func(b *irc.Buffer) {
			logger.Info("buffer close requested", "buffer", b.Title)
		},
		OnHighlighted: func(b *irc.Buffer) {
			logger.Debug("buffer highlighted", "buffer", b.Title)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %s\n", err)
		os.Exit(1)
		return
	}
	r.app = app

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Run(ctx)

	err = r.replay(ctx, script)
	r.printTree()
	app.Close()
	<-app.Done()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to replay script: %s\n", err)
		os.Exit(1)
	}
}
