package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~delthas/ircview"
	"git.sr.ht/~delthas/ircview/irc"
)

// step is a line of a replay script.
type step struct {
	Op string `json:"op"`

	// connection
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nick        string `json:"nick"`
	Casemapping string `json:"casemapping"`
	ChanTypes   string `json:"chantypes"`
	Sort        string `json:"sort"`

	// buffer, event, select, names, expand, remove, close
	Connection string `json:"connection"`
	Buffer     string `json:"buffer"`

	// event
	Type     string   `json:"type"`
	Prefix   string   `json:"prefix"`
	Command  string   `json:"command"`
	Params   []string `json:"params"`
	Time     string   `json:"time"`
	Flags    []string `json:"flags"`
	Target   string   `json:"target"`
	Content  string   `json:"content"`
	Private  bool     `json:"private"`
	Action   bool     `json:"action"`
	Request  bool     `json:"request"`
	Reply    bool     `json:"reply"`
	Channel  string   `json:"channel"`
	User     string   `json:"user"`
	Reason   string   `json:"reason"`
	Mode     string   `json:"mode"`
	Argument string   `json:"argument"`
	Lines    []string `json:"lines"`
	Names    []string `json:"names"`
	NewNick  string   `json:"new_nick"`
	Code     int      `json:"code"`
	Composed bool     `json:"composed"`
	Topic    string   `json:"topic"`

	// expand
	Expanded bool `json:"expanded"`

	// click
	Href string `json:"href"`

	// wait
	Ms int `json:"ms"`
}

type bufferKey struct {
	connection string
	title      string
}

type replayer struct {
	app *ircview.App
	cfg ircview.Config

	outMu sync.Mutex
	out   io.Writer

	connections map[string]*irc.Connection
	models      map[string]*irc.BufferModel
	buffers     map[bufferKey]*irc.Buffer
}

func newReplayer(cfg ircview.Config, out io.Writer) *replayer {
	return &replayer{
		cfg:         cfg,
		out:         out,
		connections: map[string]*irc.Connection{},
		models:      map[string]*irc.BufferModel{},
		buffers:     map[bufferKey]*irc.Buffer{},
	}
}

func (r *replayer) output(b *irc.Buffer, e ircview.Entry) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.out, "%s\t%s\t%s\n", b.Title, e.Class, e.Format)
}

func (r *replayer) printTree() {
	rows := r.app.Tree()
	r.outMu.Lock()
	defer r.outMu.Unlock()
	for _, row := range rows {
		fmt.Fprintln(r.out, row.String())
	}
}

func (r *replayer) replay(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		var s step
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return fmt.Errorf("line %d: %v", line, err)
		}
		if err := r.run(ctx, s); err != nil {
			return fmt.Errorf("line %d: %v", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	// Let pending events be handled before the tree is printed.
	r.app.Call(func() {})
	return nil
}

func (r *replayer) buffer(s step) (*irc.Buffer, error) {
	if _, ok := r.connections[s.Connection]; !ok {
		return nil, fmt.Errorf("unknown connection %q", s.Connection)
	}
	b, ok := r.buffers[bufferKey{s.Connection, s.Buffer}]
	if !ok {
		return nil, fmt.Errorf("unknown buffer %q on connection %q", s.Buffer, s.Connection)
	}
	return b, nil
}

func (r *replayer) run(ctx context.Context, s step) error {
	switch s.Op {
	case "connection":
		if s.ID == "" {
			return fmt.Errorf("connection: id is required")
		}
		if _, ok := r.connections[s.ID]; ok {
			return fmt.Errorf("connection %q already exists", s.ID)
		}
		nick := s.Nick
		if nick == "" {
			nick = r.cfg.Nick
		}
		conn := irc.NewConnection(s.ID, s.Name, nick)
		if s.Casemapping != "" {
			conn.SetCasemapping(s.Casemapping)
		}
		if s.ChanTypes != "" {
			conn.SetChanTypes(s.ChanTypes)
		}
		method, err := parseSortMethod(s.Sort)
		if err != nil {
			return err
		}
		model := irc.NewBufferModel(method)
		b := irc.NewServerBuffer(conn, model)
		r.connections[s.ID] = conn
		r.models[s.ID] = model
		r.buffers[bufferKey{s.ID, ""}] = b
		r.app.AddBuffer(b)
	case "buffer":
		conn, ok := r.connections[s.Connection]
		if !ok {
			return fmt.Errorf("unknown connection %q", s.Connection)
		}
		key := bufferKey{s.Connection, s.Buffer}
		if _, ok := r.buffers[key]; ok {
			return fmt.Errorf("buffer %q already exists", s.Buffer)
		}
		b := irc.NewBuffer(conn, r.models[s.Connection], s.Buffer)
		r.buffers[key] = b
		r.app.AddBuffer(b)
	case "remove":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		delete(r.buffers, bufferKey{s.Connection, s.Buffer})
		if b.Sticky {
			for k := range r.buffers {
				if k.connection == s.Connection {
					delete(r.buffers, k)
				}
			}
			delete(r.connections, s.Connection)
			delete(r.models, s.Connection)
		}
		r.app.RemoveBuffer(b)
	case "event":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		ev, err := r.event(s, b.Connection)
		if err != nil {
			return err
		}
		r.app.Deliver(b, ev)
	case "select":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		r.app.SetCurrentBuffer(b)
	case "close":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		r.app.CloseBuffer(b)
	case "names":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		if b.Channel == nil {
			return fmt.Errorf("buffer %q is not a channel", s.Buffer)
		}
		names := s.Names
		r.app.Do(func() {
			b.Channel.SetNames(names)
		})
	case "expand":
		b, err := r.buffer(s)
		if err != nil {
			return err
		}
		r.app.SetExpanded(b, s.Expanded)
	case "click":
		r.app.Click(s.Href)
	case "wait":
		// Make sure previous steps were handled before waiting.
		r.app.Call(func() {})
		t := time.NewTimer(time.Duration(s.Ms) * time.Millisecond)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

func parseSortMethod(s string) (irc.SortMethod, error) {
	switch s {
	case "", "title":
		return irc.SortByTitle, nil
	case "name":
		return irc.SortByName, nil
	case "activity":
		return irc.SortByActivity, nil
	default:
		return 0, fmt.Errorf("unknown sort method %q", s)
	}
}

func (r *replayer) event(s step, conn *irc.Connection) (irc.Event, error) {
	msg := irc.Message{
		Command:    s.Command,
		Params:     s.Params,
		Connection: conn,
	}
	if s.Prefix != "" {
		msg.Prefix = irc.ParsePrefix(s.Prefix)
	}
	if s.Time != "" {
		t, err := time.Parse(time.RFC3339, s.Time)
		if err != nil {
			return nil, fmt.Errorf("invalid time: %v", err)
		}
		msg.Time = t
	}
	for _, f := range s.Flags {
		switch f {
		case "own":
			msg.Flags |= irc.FlagOwn
		case "implicit":
			msg.Flags |= irc.FlagImplicit
		case "playback":
			msg.Flags |= irc.FlagPlayback
		default:
			return nil, fmt.Errorf("unknown flag %q", f)
		}
	}

	switch strings.ToLower(s.Type) {
	case "away":
		return irc.AwayEvent{Message: msg, Content: s.Content}, nil
	case "invite":
		return irc.InviteEvent{Message: msg, User: s.User, Channel: s.Channel, Reply: s.Reply}, nil
	case "join":
		return irc.JoinEvent{Message: msg, Channel: s.Channel}, nil
	case "kick":
		return irc.KickEvent{Message: msg, Channel: s.Channel, User: s.User, Reason: s.Reason}, nil
	case "mode":
		return irc.ModeEvent{Message: msg, Target: s.Target, Mode: s.Mode, Argument: s.Argument, Reply: s.Reply}, nil
	case "motd":
		return irc.MotdEvent{Message: msg, Lines: s.Lines}, nil
	case "names":
		return irc.NamesEvent{Message: msg, Channel: s.Channel, Names: s.Names}, nil
	case "nick":
		return irc.NickEvent{Message: msg, NewNick: s.NewNick}, nil
	case "notice":
		return irc.NoticeEvent{Message: msg, Target: s.Target, Content: s.Content, Private: s.Private, Reply: s.Reply}, nil
	case "numeric":
		return irc.NumericEvent{Message: msg, Code: s.Code, Composed: s.Composed}, nil
	case "part":
		return irc.PartEvent{Message: msg, Channel: s.Channel, Reason: s.Reason}, nil
	case "pong":
		return irc.PongEvent{Message: msg, Argument: s.Argument}, nil
	case "private", "privmsg":
		return irc.PrivateEvent{Message: msg, Target: s.Target, Content: s.Content, Private: s.Private, Action: s.Action, Request: s.Request}, nil
	case "quit":
		return irc.QuitEvent{Message: msg, Reason: s.Reason}, nil
	case "topic":
		return irc.TopicEvent{Message: msg, Channel: s.Channel, Topic: s.Topic, Reply: s.Reply}, nil
	case "unknown":
		return irc.UnknownEvent{Message: msg}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", s.Type)
	}
}
