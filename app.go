package ircview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"git.sr.ht/~delthas/ircview/events"
	"git.sr.ht/~delthas/ircview/irc"
	"git.sr.ht/~delthas/ircview/ui"
)

const eventChanSize = 1024

// Notifier shows desktop notifications.
type Notifier interface {
	// Notify returns an id for Close, or a negative id if the notification
	// cannot be closed.
	Notify(title, content string) (id int, err error)
	Close(id int)
}

type desktopNotifier struct{}

func (desktopNotifier) Notify(title, content string) (int, error) {
	return ui.Notify(title, content)
}

func (desktopNotifier) Close(id int) {
	ui.NotifyClose(id)
}

type Options struct {
	// Logger receives debug information. Defaults to discarding.
	Logger *slog.Logger

	// Output receives every entry added to a buffer.
	Output func(b *irc.Buffer, e Entry)

	// OnQuery is called when a nickname link is clicked.
	OnQuery func(conn *irc.Connection, nick string)
	// OnJoin is called when a channel link is clicked.
	OnJoin func(conn *irc.Connection, channel string)
	// OnOpenLink is called when another link is clicked.
	OnOpenLink func(link string)

	OnCurrentBufferChanged func(b *irc.Buffer)
	OnBufferClosed         func(b *irc.Buffer)
	OnHighlighted          func(b *irc.Buffer)

	// Notifier overrides desktop notifications.
	Notifier Notifier
	// Scheduler overrides the timers of the event loop.
	Scheduler ui.Scheduler
	// Now overrides the clock.
	Now func() time.Time
}

type event struct {
	src     string // "*" if UI, connection ID otherwise
	content any
}

type addBufferEvent struct {
	buffer *irc.Buffer
}

type removeBufferEvent struct {
	buffer *irc.Buffer
}

type deliverEvent struct {
	buffer *irc.Buffer
	event  irc.Event
}

type selectBufferEvent struct {
	buffer *irc.Buffer
}

type closeBufferEvent struct {
	buffer *irc.Buffer
}

type clickEvent struct {
	href string
}

type expandEvent struct {
	buffer   *irc.Buffer
	expanded bool
}

// App ties the buffer tree and the per-buffer formatters to a single event
// loop. Its exported methods may be called from any goroutine.
type App struct {
	cfg    Config
	opts   Options
	logger *slog.Logger

	// events MUST NOT be posted to directly; instead, use App.postEvent.
	events chan event

	sched ui.Scheduler
	timer *ui.SharedTimer
	tree  *ui.BufferTree
	views map[*irc.Buffer]*view

	notifier      Notifier
	notifyLimiter *rate.Limiter
	notifications map[*irc.Buffer][]int // ids of the shown notifications

	closing   atomic.Bool
	quit      chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

func NewApp(cfg Config, opts Options) (app *App, err error) {
	if cfg.BlinkInterval <= 0 {
		return nil, errors.New("blink interval must be positive")
	}
	if cfg.NamesPerRow <= 0 {
		return nil, errors.New("names per row must be positive")
	}

	app = &App{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		events: make(chan event, eventChanSize),
		views:  map[*irc.Buffer]*view{},
		quit:   make(chan struct{}),
		done:   make(chan struct{}),

		notifications: map[*irc.Buffer][]int{},
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	app.sched = opts.Scheduler
	if app.sched == nil {
		app.sched = ui.NewLoopScheduler(func(f func()) {
			app.postEvent(event{
				src:     "*",
				content: f,
			})
		})
	}
	app.timer = ui.NewSharedTimer(app.sched, cfg.BlinkInterval)
	app.tree = ui.NewBufferTree(cfg.TreeConfig(), app.sched, app.timer)
	app.tree.SetCallbacks(ui.TreeCallbacks{
		CurrentBufferChanged: app.onCurrentBufferChanged,
		BufferClosed:         opts.OnBufferClosed,
		BufferRemoved:        app.onBufferRemoved,
		Highlighted:          opts.OnHighlighted,
	})

	app.notifier = opts.Notifier
	if app.notifier == nil {
		app.notifier = desktopNotifier{}
	}
	limit := rate.Inf
	if cfg.NotifyRate > 0 {
		limit = rate.Every(cfg.NotifyRate)
	}
	app.notifyLimiter = rate.NewLimiter(limit, 1)

	return app, nil
}

// Run handles events until ctx is done or Close is called.
func (app *App) Run(ctx context.Context) error {
	defer close(app.done)
	for {
		select {
		case <-ctx.Done():
			app.closing.Store(true)
			return ctx.Err()
		case <-app.quit:
			return nil
		case ev := <-app.events:
			app.handleEvent(ev)
			if app.closing.Load() {
				return nil
			}
		}
	}
}

// Close stops Run once the event being handled, if any, returns. Events
// still queued are dropped.
func (app *App) Close() {
	app.closing.Store(true)
	app.closeOnce.Do(func() {
		close(app.quit)
	})
}

// Done is closed when Run returns.
func (app *App) Done() <-chan struct{} {
	return app.done
}

func (app *App) postEvent(ev event) {
	if app.closing.Load() {
		return
	}
	select {
	case app.events <- ev:
	case <-app.done:
	}
}

func (app *App) AddBuffer(b *irc.Buffer) {
	app.postEvent(event{src: "*", content: addBufferEvent{buffer: b}})
}

func (app *App) RemoveBuffer(b *irc.Buffer) {
	app.postEvent(event{src: "*", content: removeBufferEvent{buffer: b}})
}

// Deliver hands an event received by b to the loop.
func (app *App) Deliver(b *irc.Buffer, ev irc.Event) {
	src := ""
	if b != nil && b.Connection != nil {
		src = b.Connection.ID
	}
	app.postEvent(event{src: src, content: deliverEvent{buffer: b, event: ev}})
}

func (app *App) SetCurrentBuffer(b *irc.Buffer) {
	app.postEvent(event{src: "*", content: selectBufferEvent{buffer: b}})
}

// CloseBuffer asks for b to be closed, or the current buffer if b is nil.
func (app *App) CloseBuffer(b *irc.Buffer) {
	app.postEvent(event{src: "*", content: closeBufferEvent{buffer: b}})
}

// SetExpanded expands or collapses a root of the buffer tree.
func (app *App) SetExpanded(b *irc.Buffer, expanded bool) {
	app.postEvent(event{src: "*", content: expandEvent{buffer: b, expanded: expanded}})
}

// Click handles a click on a link of the current buffer.
func (app *App) Click(href string) {
	app.postEvent(event{src: "*", content: clickEvent{href: href}})
}

// Do runs f on the loop.
func (app *App) Do(f func()) {
	app.postEvent(event{src: "*", content: f})
}

// Call runs f on the loop and waits for it to return. It returns without
// running f if the loop has stopped.
func (app *App) Call(f func()) {
	done := make(chan struct{})
	app.Do(func() {
		f()
		close(done)
	})
	select {
	case <-done:
	case <-app.done:
	}
}

// CurrentBuffer returns the selected buffer, or nil.
func (app *App) CurrentBuffer() *irc.Buffer {
	var b *irc.Buffer
	app.Call(func() {
		b = app.tree.CurrentBuffer()
	})
	return b
}

func (app *App) handleEvent(ev event) {
	if ev.src == "*" {
		app.handleUIEvent(ev.content)
	} else {
		app.handleIRCEvent(ev.src, ev.content)
	}
}

func (app *App) handleUIEvent(ev any) {
	switch ev := ev.(type) {
	case func():
		ev()
	case addBufferEvent:
		app.addBuffer(ev.buffer)
	case removeBufferEvent:
		app.tree.RemoveBuffer(ev.buffer)
	case selectBufferEvent:
		app.tree.SetCurrentBuffer(ev.buffer)
	case closeBufferEvent:
		app.tree.CloseBuffer(ev.buffer)
	case expandEvent:
		app.tree.SetExpanded(ev.buffer, ev.expanded)
	case clickEvent:
		app.handleClick(ev.href)
	default:
		app.logger.Debug("unhandled UI event", "type", fmt.Sprintf("%T", ev))
	}
}

func (app *App) handleIRCEvent(src string, ev any) {
	switch ev := ev.(type) {
	case deliverEvent:
		app.deliver(ev.buffer, ev.event)
	default:
		app.logger.Debug("unhandled IRC event", "connection", src, "type", fmt.Sprintf("%T", ev))
	}
}

func (app *App) addBuffer(b *irc.Buffer) {
	if b == nil || app.views[b] != nil {
		return
	}
	app.views[b] = app.newView(b)
	app.tree.AddBuffer(b)
	app.logger.Debug("buffer added", "connection", b.Connection.String(), "buffer", b.Title)
}

func (app *App) onBufferRemoved(b *irc.Buffer) {
	if v := app.views[b]; v != nil {
		v.close()
		delete(app.views, b)
	}
	if b.Model != nil {
		b.Model.Forget(b)
	}
	app.closeNotifications(b)
	app.logger.Debug("buffer removed", "connection", b.Connection.String(), "buffer", b.Title)
}

func (app *App) onCurrentBufferChanged(b *irc.Buffer) {
	app.closeNotifications(b)
	if app.opts.OnCurrentBufferChanged != nil {
		app.opts.OnCurrentBufferChanged(b)
	}
}

func (app *App) deliver(b *irc.Buffer, ev irc.Event) {
	v := app.views[b]
	if v == nil {
		app.logger.Debug("dropping event for unknown buffer", "command", ev.Header().Command)
		return
	}
	app.updateState(b, ev)

	if e, ok := v.formatter.Format(ev); ok {
		app.addLine(v, e)
	}

	n := app.tree.Node(b)
	if n == nil {
		return
	}
	wasHighlighted := n.Highlighted()
	app.tree.MessageReceived(b, ev)
	if !wasHighlighted && n.Highlighted() {
		app.notifyHighlight(b, ev)
	}
}

// updateState applies ev to the connection, buffer and membership state
// before it is formatted.
func (app *App) updateState(b *irc.Buffer, ev irc.Event) {
	msg := ev.Header()
	conn := b.Connection
	ch := b.Channel
	switch ev := ev.(type) {
	case irc.JoinEvent:
		if msg.Own() || conn.IsMe(msg.Nick()) {
			b.Active = true
			app.tree.Refresh(b)
		}
		if ch != nil {
			ch.Add(msg.Nick(), "")
		}
	case irc.PartEvent:
		if msg.Own() || conn.IsMe(msg.Nick()) {
			b.Active = false
			app.tree.Refresh(b)
		}
		if ch != nil {
			ch.Remove(msg.Nick())
		}
	case irc.KickEvent:
		if conn.IsMe(ev.User) {
			b.Active = false
			app.tree.Refresh(b)
		}
		if ch != nil {
			ch.Remove(ev.User)
		}
	case irc.QuitEvent:
		if ch != nil {
			ch.Remove(msg.Nick())
		}
	case irc.NickEvent:
		if conn != nil && (msg.Own() || conn.IsMe(msg.Nick())) {
			conn.Nick = ev.NewNick
		}
		if ch != nil {
			ch.Rename(msg.Nick(), ev.NewNick)
		}
	case irc.NamesEvent:
		if ch != nil {
			ch.SetNames(ev.Names)
		}
	case irc.TopicEvent:
		if ch != nil {
			ch.Topic = ev.Topic
		}
	case irc.AwayEvent:
		if ch != nil {
			ch.SetAway(msg.Nick(), ev.Content != "")
		}
	case irc.PrivateEvent, irc.NoticeEvent:
		t := msg.TimeOrNow()
		if ch != nil {
			ch.Touch(msg.Nick(), t)
		}
		if b.Model != nil {
			b.Model.Touch(b, t)
			app.tree.Refresh(b)
		}
	}
}

func (app *App) notifyHighlight(b *irc.Buffer, ev irc.Event) {
	if !app.cfg.Notify {
		return
	}
	if !app.notifyLimiter.Allow() {
		app.logger.Debug("notification throttled", "buffer", b.Title)
		return
	}
	msg := ev.Header()
	title := b.Title
	if nick := msg.Nick(); nick != "" && nick != b.Title {
		title = fmt.Sprintf("%s (%s)", nick, b.Title)
	}
	content := ui.StripCodes(irc.Content(ev))
	notifier := app.notifier
	logger := app.logger
	conn := b.Connection
	go func() {
		id, err := notifier.Notify(title, content)
		if err != nil {
			logger.Debug("notification failed", "err", err)
			app.Do(func() {
				app.addStatusLine(conn, fmt.Sprintf("Failed to show notification: %v", err))
			})
			return
		}
		if id < 0 {
			return
		}
		app.Do(func() {
			app.addNotification(b, id)
		})
	}()
}

// addNotification records a notification shown for b, or closes it right
// away if b was selected or removed in the meantime.
func (app *App) addNotification(b *irc.Buffer, id int) {
	if app.views[b] == nil || app.tree.CurrentBuffer() == b {
		go app.notifier.Close(id)
		return
	}
	app.notifications[b] = append(app.notifications[b], id)
}

// closeNotifications closes the notifications shown for b.
func (app *App) closeNotifications(b *irc.Buffer) {
	ids := app.notifications[b]
	if len(ids) == 0 {
		return
	}
	delete(app.notifications, b)
	notifier := app.notifier
	go func() {
		for _, id := range ids {
			notifier.Close(id)
		}
	}()
}

func (app *App) handleClick(href string) {
	current := app.tree.CurrentBuffer()
	var conn *irc.Connection
	if current != nil {
		conn = current.Connection
	}
	switch ev := events.ParseLink(href).(type) {
	case *events.EventClickNick:
		if app.opts.OnQuery != nil {
			app.opts.OnQuery(conn, ev.Nick)
		}
	case *events.EventClickExpand:
		if v := app.views[current]; v != nil {
			v.expanded = !v.expanded
		}
	case *events.EventClickChannel:
		if app.opts.OnJoin != nil {
			app.opts.OnJoin(conn, ev.Channel)
		}
	case *events.EventClickLink:
		if app.opts.OnOpenLink != nil {
			app.opts.OnOpenLink(ev.Link)
		}
	default:
		app.logger.Debug("ignoring click", "href", href)
	}
}

func BuildVersion() (string, bool) {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.Main.Version, true
	} else {
		return "", false
	}
}
