package ircview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"git.sr.ht/~delthas/ircview/irc"
	"git.sr.ht/~delthas/ircview/ui"
)

// Entry classes.
const (
	ClassMessage = "message"
	ClassEvent   = "event"
	ClassNotice  = "notice"
	ClassAction  = "action"
	ClassUnknown = "unknown"
)

// Entry is a formatted event, ready to be displayed.
type Entry struct {
	Class  string
	Format string // HTML markup, wrapped in a span of Class
	Event  irc.Event
	Time   time.Time
}

// Formatter renders events of a buffer to HTML.
type Formatter struct {
	buffer      *irc.Buffer
	textFormat  ui.TextFormat
	colors      ui.NickColors
	names       NameIndex
	namesPerRow int
	now         func() time.Time
	onFormatted func(Entry)

	cancelNames func()
}

func NewFormatter() *Formatter {
	return &Formatter{
		textFormat:  ui.IRCFormat{},
		colors:      ui.DefaultNickColors,
		namesPerRow: 10,
		now:         time.Now,
	}
}

func (f *Formatter) Buffer() *irc.Buffer {
	return f.buffer
}

// SetBuffer binds the formatter to b. The nicknames of its channel are
// linkified in message bodies and kept up to date.
func (f *Formatter) SetBuffer(b *irc.Buffer) {
	if f.buffer == b {
		return
	}
	if f.cancelNames != nil {
		f.cancelNames()
		f.cancelNames = nil
	}
	f.buffer = b
	f.names = nil
	if b != nil && b.Channel != nil {
		f.cancelNames = b.Channel.OnNamesChanged(f.indexNames)
		f.indexNames(b.Channel.Names())
	}
}

func (f *Formatter) indexNames(names []string) {
	f.names = NewNameIndex(names)
}

// Names returns the current nickname index.
func (f *Formatter) Names() NameIndex {
	return f.names
}

func (f *Formatter) SetTextFormat(tf ui.TextFormat) {
	f.textFormat = tf
}

func (f *Formatter) SetNickColors(nc ui.NickColors) {
	f.colors = nc
}

func (f *Formatter) SetNamesPerRow(n int) {
	if n > 0 {
		f.namesPerRow = n
	}
}

// SetClock replaces the clock used for timestamps and round-trip times.
func (f *Formatter) SetClock(now func() time.Time) {
	f.now = now
}

// OnFormatted registers the receiver of entries formatted outside of the
// return value of Format, such as MOTD lines and NAMES rows.
func (f *Formatter) OnFormatted(fn func(Entry)) {
	f.onFormatted = fn
}

func (f *Formatter) emit(ev irc.Event, format string) {
	if f.onFormatted == nil {
		return
	}
	f.onFormatted(f.entry(ev, format))
}

func (f *Formatter) entry(ev irc.Event, format string) Entry {
	t := ev.Header().Time
	if t.IsZero() {
		t = f.now()
	}
	return Entry{
		Class:  Class(ev),
		Format: format,
		Event:  ev,
		Time:   t,
	}
}

// Format renders ev. It returns false when ev has nothing to display on its
// own, either because it is suppressed or because its entries went to the
// OnFormatted receiver.
func (f *Formatter) Format(ev irc.Event) (Entry, bool) {
	var format string
	switch ev := ev.(type) {
	case irc.AwayEvent:
		format = f.formatAway(ev)
	case irc.InviteEvent:
		format = f.formatInvite(ev)
	case irc.JoinEvent:
		format = f.formatJoin(ev)
	case irc.KickEvent:
		format = f.formatKick(ev)
	case irc.ModeEvent:
		format = f.formatMode(ev)
	case irc.MotdEvent:
		format = f.formatMotd(ev)
	case irc.NamesEvent:
		format = f.formatNames(ev)
	case irc.NickEvent:
		format = f.formatNick(ev)
	case irc.NoticeEvent:
		format = f.formatNotice(ev)
	case irc.NumericEvent:
		format = f.formatNumeric(ev)
	case irc.PartEvent:
		format = f.formatPart(ev)
	case irc.PongEvent:
		format = f.formatPong(ev)
	case irc.PrivateEvent:
		format = f.formatPrivate(ev)
	case irc.QuitEvent:
		format = f.formatQuit(ev)
	case irc.TopicEvent:
		format = f.formatTopic(ev)
	case irc.UnknownEvent:
		format = f.formatUnknown(ev)
	}
	if format == "" {
		return Entry{}, false
	}
	return f.entry(ev, wrapClass(ev, format)), true
}

func wrapClass(ev irc.Event, format string) string {
	return fmt.Sprintf("<span class='%s'>%s</span>", Class(ev), format)
}

// Class returns the display class of ev.
func Class(ev irc.Event) string {
	switch ev := ev.(type) {
	case irc.AwayEvent, irc.InviteEvent, irc.JoinEvent, irc.KickEvent,
		irc.ModeEvent, irc.MotdEvent, irc.NamesEvent, irc.NickEvent,
		irc.PartEvent, irc.PongEvent, irc.QuitEvent, irc.TopicEvent:
		return ClassEvent
	case irc.UnknownEvent:
		return ClassUnknown
	case irc.NoticeEvent:
		if ev.Reply {
			return ClassEvent
		}
		return ClassNotice
	case irc.PrivateEvent:
		if ev.Action {
			return ClassAction
		}
		if ev.Request {
			return ClassEvent
		}
		return ClassMessage
	case irc.NumericEvent:
		if irc.IsError(ev.Code) {
			return ClassNotice
		}
		return ClassEvent
	}
	return ClassMessage
}

// FormatText renders an IRC message body, with known nicknames linkified.
func (f *Formatter) FormatText(text string) string {
	msg := f.textFormat.HTML(text)
	return f.names.Linkify(msg, f.nickLink)
}

func (f *Formatter) nickLink(name string) string {
	return fmt.Sprintf("<a style='text-decoration:none;' href='nick:%s'>%s</a>", html.EscapeString(name), f.styled(name, ui.StyleBold|ui.StyleColor))
}

func (f *Formatter) styled(text string, style ui.Style) string {
	return f.colors.Styled(text, style)
}

func (f *Formatter) bold(text string) string {
	return f.styled(text, ui.StyleBold)
}

func formatExpander(expander string) string {
	return fmt.Sprintf("<a href='expand:' class='event' style='text-decoration:none;'>%s</a>", expander)
}

func (f *Formatter) formatSender(ev irc.Event) string {
	msg := ev.Header()
	style := ui.StyleBold
	if p, ok := ev.(irc.PrivateEvent); ok && !p.Action && !p.Request {
		if msg.Own() {
			style |= ui.StyleDim
		} else {
			style |= ui.StyleColor
		}
	}
	return f.styled(msg.Nick(), style)
}

// formatSeconds returns the time elapsed since the unix timestamp secs.
func (f *Formatter) formatSeconds(secs int64) string {
	elapsed := f.now().Sub(time.Unix(secs, 0))
	return fmt.Sprintf("%ds", int64(elapsed/time.Second))
}

func formatDuration(secs int) string {
	var idle []string
	if days := secs / 86400; days != 0 {
		idle = append(idle, fmt.Sprintf("%d days", days))
	}
	secs %= 86400
	if hours := secs / 3600; hours != 0 {
		idle = append(idle, fmt.Sprintf("%d hours", hours))
	}
	secs %= 3600
	if mins := secs / 60; mins != 0 {
		idle = append(idle, fmt.Sprintf("%d mins", mins))
	}
	idle = append(idle, fmt.Sprintf("%d secs", secs%60))
	return strings.Join(idle, " ")
}

func (f *Formatter) formatAway(ev irc.AwayEvent) string {
	if ev.Own() {
		return fmt.Sprintf("! %s", f.FormatText(ev.Content))
	} else if ev.Content != "" {
		return fmt.Sprintf("! %s is away (%s)", f.formatSender(ev), f.FormatText(ev.Content))
	}
	return fmt.Sprintf("! %s is back", f.formatSender(ev))
}

func (f *Formatter) formatInvite(ev irc.InviteEvent) string {
	if ev.Reply {
		return fmt.Sprintf("! invited %s to %s", f.bold(ev.User), f.bold(ev.Channel))
	}
	return fmt.Sprintf("%s %s invited to %s", formatExpander("!"), f.formatSender(ev), f.bold(ev.Channel))
}

func (f *Formatter) formatJoin(ev irc.JoinEvent) string {
	return fmt.Sprintf("%s %s joined", formatExpander("!"), f.formatSender(ev))
}

func (f *Formatter) formatKick(ev irc.KickEvent) string {
	return fmt.Sprintf("%s %s kicked %s", formatExpander("!"), f.formatSender(ev), f.bold(ev.User))
}

func (f *Formatter) formatMode(ev irc.ModeEvent) string {
	if ev.Reply {
		return fmt.Sprintf("%s %s mode is %s %s", formatExpander("!"), f.bold(ev.Target), f.bold(ev.Mode), f.bold(ev.Argument))
	}
	return fmt.Sprintf("%s %s sets mode %s %s", formatExpander("!"), f.formatSender(ev), f.bold(ev.Mode), f.bold(ev.Argument))
}

func (f *Formatter) formatMotd(ev irc.MotdEvent) string {
	for _, line := range ev.Lines {
		f.emit(ev, wrapClass(ev, "[MOTD] "+f.FormatText(line)))
	}
	return ""
}

func (f *Formatter) formatNames(ev irc.NamesEvent) string {
	if ev.Implicit() {
		return ""
	}
	if f.buffer == nil || f.buffer.Channel == nil {
		return ""
	}
	titles := f.buffer.Channel.Titles()
	for i := 0; i < len(titles); i += f.namesPerRow {
		end := i + f.namesPerRow
		if end > len(titles) {
			end = len(titles)
		}
		row := make([]string, 0, end-i)
		for _, title := range titles[i:end] {
			row = append(row, html.EscapeString(title))
		}
		f.emit(ev, wrapClass(ev, "[NAMES] "+strings.Join(row, " ")))
	}
	return ""
}

func (f *Formatter) formatNick(ev irc.NickEvent) string {
	return fmt.Sprintf("%s %s changed nick", formatExpander("!"), f.bold(ev.NewNick))
}

func (f *Formatter) formatNotice(ev irc.NoticeEvent) string {
	if ev.Reply {
		params := strings.Fields(ev.Content)
		var cmd string
		if len(params) > 0 {
			cmd = strings.ToUpper(params[0])
		}
		rest := ""
		if len(params) > 1 {
			rest = html.EscapeString(strings.Join(params[1:], " "))
		}
		switch cmd {
		case "PING":
			var secs int64
			if len(params) > 1 {
				secs, _ = strconv.ParseInt(params[1], 10, 64)
			}
			return fmt.Sprintf("! %s replied in %s", f.formatSender(ev), f.formatSeconds(secs))
		case "TIME":
			return fmt.Sprintf("! %s time is %s", f.formatSender(ev), rest)
		case "VERSION":
			return fmt.Sprintf("! %s version is %s", f.formatSender(ev), rest)
		}
	}
	return fmt.Sprintf("[%s] %s", f.formatSender(ev), f.FormatText(ev.Content))
}

func (f *Formatter) formatNumeric(ev irc.NumericEvent) string {
	if ev.Code < 300 {
		return fmt.Sprintf("[INFO] %s", f.FormatText(ev.ParamsFrom(1)))
	}

	p := func(i int) string {
		return html.EscapeString(ev.Param(i))
	}
	var formatted string
	switch ev.Code {
	case irc.RplWhoisuser:
		formatted = fmt.Sprintf("%s is %s@%s (%s)", p(1), p(2), p(3), f.FormatText(ev.ParamsFrom(5)))
	case irc.RplWhowasuser:
		formatted = fmt.Sprintf("%s was %s@%s (%s)", p(1), p(2), p(3), f.FormatText(ev.ParamsFrom(5)))
	case irc.RplWhoisserver:
		formatted = fmt.Sprintf("%s via %s (%s)", p(1), p(2), p(3))
	case irc.RplWhoisaccount:
		formatted = fmt.Sprintf("%s as %s", p(1), p(2))
	case irc.RplWhoisidle:
		idle, _ := strconv.Atoi(ev.Param(2))
		signon, _ := strconv.ParseInt(ev.Param(3), 10, 64)
		formatted = fmt.Sprintf("%s since %s (idle %s)", p(1), ui.FormatDateTime(time.Unix(signon, 0)), formatDuration(idle))
	case irc.RplWhoischannels:
		formatted = fmt.Sprintf("%s on %s", p(1), p(2))
	case irc.RplVersion:
		return fmt.Sprintf("! %s version is %s", f.bold(ev.Nick()), p(1))
	case irc.RplTime:
		return fmt.Sprintf("! %s time is %s", f.bold(ev.Param(1)), p(2))
	}

	if ev.Composed || ev.Implicit() {
		return ""
	}

	if formatted == "" {
		if irc.IsError(ev.Code) {
			return fmt.Sprintf("[ERROR] %s", f.FormatText(ev.ParamsFrom(1)))
		}
		formatted = f.textFormat.HTML(ev.ParamsFrom(1))
	}
	return fmt.Sprintf("[%d] %s", ev.Code, formatted)
}

func (f *Formatter) formatPart(ev irc.PartEvent) string {
	return fmt.Sprintf("%s %s left", formatExpander("!"), f.formatSender(ev))
}

func (f *Formatter) formatPong(ev irc.PongEvent) string {
	secs, _ := strconv.ParseInt(ev.Argument, 10, 64)
	return fmt.Sprintf("! %s replied in %s", f.formatSender(ev), f.formatSeconds(secs))
}

func (f *Formatter) formatPrivate(ev irc.PrivateEvent) string {
	if ev.Request {
		cmd, _, _ := strings.Cut(ev.Content, " ")
		return fmt.Sprintf("%s %s requested %s", formatExpander("!"), f.formatSender(ev), html.EscapeString(strings.ToUpper(cmd)))
	}
	if ev.Action {
		return fmt.Sprintf("* %s %s", f.formatSender(ev), f.FormatText(ev.Content))
	}
	return fmt.Sprintf("&lt;<a style='text-decoration:none;' href='nick:%s'>%s</a>&gt; %s", html.EscapeString(ev.Nick()), f.formatSender(ev), f.FormatText(ev.Content))
}

var disconnectReasons = []string{
	"Ping timeout",
	"Connection reset by peer",
	"Remote host closed the connection",
}

// Disconnected reports whether a quit reason is a connection loss rather
// than a deliberate quit.
func Disconnected(reason string) bool {
	for _, r := range disconnectReasons {
		if strings.Contains(reason, r) {
			return true
		}
	}
	return false
}

func (f *Formatter) formatQuit(ev irc.QuitEvent) string {
	if Disconnected(ev.Reason) {
		return fmt.Sprintf("%s %s disconnected", formatExpander("!"), f.formatSender(ev))
	}
	return fmt.Sprintf("%s %s quit", formatExpander("!"), f.formatSender(ev))
}

func (f *Formatter) formatTopic(ev irc.TopicEvent) string {
	if ev.Implicit() {
		return ""
	}
	if ev.Reply {
		if ev.Topic == "" {
			return "! no topic"
		}
		return fmt.Sprintf("[TOPIC] %s", f.FormatText(ev.Topic))
	}
	if ev.Topic == "" {
		return fmt.Sprintf("%s %s cleared topic", formatExpander("!"), f.formatSender(ev))
	}
	return fmt.Sprintf("%s %s changed topic", formatExpander("!"), f.formatSender(ev))
}

func (f *Formatter) formatUnknown(ev irc.UnknownEvent) string {
	return fmt.Sprintf("%s %s %s %s", formatExpander("?"), f.formatSender(ev), html.EscapeString(ev.Command), html.EscapeString(strings.Join(ev.Params, " ")))
}
