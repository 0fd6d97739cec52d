package irc

import (
	"strings"
	"time"
)

// Prefix is the source of a message: nick!user@host.
type Prefix struct {
	Name string
	User string
	Host string
}

func (p *Prefix) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.User != "" {
		sb.WriteByte('!')
		sb.WriteString(p.User)
	}
	if p.Host != "" {
		sb.WriteByte('@')
		sb.WriteString(p.Host)
	}
	return sb.String()
}

// ParsePrefix splits a nick!user@host string.
func ParsePrefix(s string) *Prefix {
	p := &Prefix{}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		p.Host = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '!'); i >= 0 {
		p.User = s[i+1:]
		s = s[:i]
	}
	p.Name = s
	return p
}

type Flags uint8

const (
	// FlagOwn marks messages sent by the local user.
	FlagOwn Flags = 1 << iota
	// FlagImplicit marks messages the client requested on its own, such as
	// the topic and names replies sent on join.
	FlagImplicit
	// FlagPlayback marks messages replayed from history.
	FlagPlayback
)

// Message is the part shared by every event.
type Message struct {
	Prefix     *Prefix
	Command    string
	Params     []string
	Time       time.Time
	Flags      Flags
	Connection *Connection
}

func (m Message) Header() Message {
	return m
}

// Nick is the nickname of the sender, or "" if unknown.
func (m Message) Nick() string {
	if m.Prefix == nil {
		return ""
	}
	return m.Prefix.Name
}

// Ident is the username part of the sender prefix.
func (m Message) Ident() string {
	if m.Prefix == nil {
		return ""
	}
	return m.Prefix.User
}

func (m Message) Own() bool {
	return m.Flags&FlagOwn != 0
}

func (m Message) Implicit() bool {
	return m.Flags&FlagImplicit != 0
}

// Param returns the i-th parameter, or "" if absent.
func (m Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// ParamsFrom joins the parameters starting at i with spaces.
func (m Message) ParamsFrom(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return strings.Join(m.Params[i:], " ")
}

// TimeOrNow returns the message timestamp, or the current time if unset.
func (m Message) TimeOrNow() time.Time {
	if m.Time.IsZero() {
		return time.Now()
	}
	return m.Time
}

// Event is an already parsed IRC message. It is one of the *Event types of
// this package.
type Event interface {
	Header() Message
}

type AwayEvent struct {
	Message
	Content string // "" when the user is back
}

type InviteEvent struct {
	Message
	User    string
	Channel string
	Reply   bool // RPL_INVITING: we invited User
}

type JoinEvent struct {
	Message
	Channel string
}

type KickEvent struct {
	Message
	Channel string
	User    string
	Reason  string
}

type ModeEvent struct {
	Message
	Target   string
	Mode     string
	Argument string
	Reply    bool // RPL_CHANNELMODEIS / RPL_UMODEIS
}

type MotdEvent struct {
	Message
	Lines []string
}

type NamesEvent struct {
	Message
	Channel string
	Names   []string
}

type NickEvent struct {
	Message
	NewNick string
}

type NoticeEvent struct {
	Message
	Target  string
	Content string
	Private bool // sent directly to us
	Reply   bool // CTCP reply
}

type NumericEvent struct {
	Message
	Code     int
	Composed bool // already consumed into a composed event, such as RPL_TOPIC
}

type PartEvent struct {
	Message
	Channel string
	Reason  string
}

type PongEvent struct {
	Message
	Argument string
}

type PrivateEvent struct {
	Message
	Target  string
	Content string
	Private bool // sent directly to us
	Action  bool // CTCP ACTION, /me
	Request bool // CTCP request other than ACTION
}

type QuitEvent struct {
	Message
	Reason string
}

type TopicEvent struct {
	Message
	Channel string
	Topic   string
	Reply   bool // RPL_TOPIC / RPL_NOTOPIC
}

type UnknownEvent struct {
	Message
}

// Content returns the text body carried by an event, for those which have
// one.
func Content(ev Event) string {
	switch ev := ev.(type) {
	case PrivateEvent:
		return ev.Content
	case NoticeEvent:
		return ev.Content
	case AwayEvent:
		return ev.Content
	case TopicEvent:
		return ev.Topic
	case QuitEvent:
		return ev.Reason
	case PartEvent:
		return ev.Reason
	case KickEvent:
		return ev.Reason
	}
	return ""
}
