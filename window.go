package ircview

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"git.sr.ht/~delthas/ircview/irc"
)

// view is what the App keeps for each buffer: its formatter and its
// scrollback.
type view struct {
	buffer    *irc.Buffer
	formatter *Formatter

	lines      []Entry // oldest first
	scrollback int     // 0 for unbounded
	expanded   bool    // whether event lines are expanded
}

func (app *App) newView(b *irc.Buffer) *view {
	v := &view{
		buffer:     b,
		formatter:  NewFormatter(),
		scrollback: app.cfg.Scrollback,
	}
	v.formatter.SetNickColors(app.cfg.NickColors)
	v.formatter.SetNamesPerRow(app.cfg.NamesPerRow)
	v.formatter.SetClock(app.now)
	v.formatter.SetBuffer(b)
	v.formatter.OnFormatted(func(e Entry) {
		app.addLine(v, e)
	})
	return v
}

func (v *view) add(e Entry) {
	v.lines = append(v.lines, e)
	if v.scrollback > 0 && len(v.lines) > v.scrollback {
		n := len(v.lines) - v.scrollback
		copy(v.lines, v.lines[n:])
		v.lines = v.lines[:v.scrollback]
	}
}

func (v *view) close() {
	v.formatter.SetBuffer(nil)
}

func (app *App) addLine(v *view, e Entry) {
	v.add(e)
	if app.opts.Output != nil {
		app.opts.Output(v.buffer, e)
	}
}

// addStatusLine shows a client message in the server buffer of conn, and in
// the current buffer if it belongs to conn.
func (app *App) addStatusLine(conn *irc.Connection, text string) {
	e := Entry{
		Class:  ClassNotice,
		Format: fmt.Sprintf("<span class='%s'>!! %s</span>", ClassNotice, html.EscapeString(text)),
		Time:   app.now(),
	}
	var server *irc.Buffer
	if n := app.tree.ConnectionNode(conn); n != nil {
		server = n.Buffer()
	}
	if current := app.tree.CurrentBuffer(); current != nil && current != server && current.Connection == conn {
		if v := app.views[current]; v != nil {
			app.addLine(v, e)
		}
	}
	if v := app.views[server]; v != nil {
		app.addLine(v, e)
	}
}

// Lines returns a copy of the scrollback of b.
func (app *App) Lines(b *irc.Buffer) []Entry {
	var lines []Entry
	app.Call(func() {
		if v := app.views[b]; v != nil {
			lines = append(lines, v.lines...)
		}
	})
	return lines
}

// Expanded reports whether event lines of b are expanded.
func (app *App) Expanded(b *irc.Buffer) bool {
	var expanded bool
	app.Call(func() {
		if v := app.views[b]; v != nil {
			expanded = v.expanded
		}
	})
	return expanded
}

// TreeRow is a snapshot of a row of the buffer tree.
type TreeRow struct {
	Buffer      *irc.Buffer
	Depth       int
	Badge       int
	Highlighted bool
	Expanded    bool
	Current     bool
}

func (r TreeRow) String() string {
	s := fmt.Sprintf("%*s%s", 2*r.Depth, "", r.Buffer.Title)
	if r.Badge > 0 {
		s += fmt.Sprintf(" (%d)", r.Badge)
	}
	if r.Highlighted {
		s += " !"
	}
	if r.Current {
		s += " *"
	}
	return s
}

// Tree returns a snapshot of the visible rows of the buffer tree.
func (app *App) Tree() []TreeRow {
	var rows []TreeRow
	app.Call(func() {
		current := app.tree.CurrentNode()
		for _, n := range app.tree.Rows() {
			depth := 0
			if !n.IsRoot() {
				depth = 1
			}
			rows = append(rows, TreeRow{
				Buffer:      n.Buffer(),
				Depth:       depth,
				Badge:       n.DisplayBadge(),
				Highlighted: n.Highlighted(),
				Expanded:    n.Expanded(),
				Current:     n == current,
			})
		}
	})
	return rows
}

func (app *App) now() time.Time {
	if app.opts.Now != nil {
		return app.opts.Now()
	}
	return time.Now()
}
