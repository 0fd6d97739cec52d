package irc

import (
	"strings"
	"time"
)

// Connection is a registered server connection.
type Connection struct {
	ID   string
	Name string
	Nick string // our current nickname

	chantypes string
	casemap   func(string) string
}

func NewConnection(id, name, nick string) *Connection {
	return &Connection{
		ID:        id,
		Name:      name,
		Nick:      nick,
		chantypes: "#&",
		casemap:   CasemapRFC1459,
	}
}

// SetCasemapping applies the ISUPPORT CASEMAPPING value. Unknown values are
// ignored.
func (c *Connection) SetCasemapping(name string) {
	switch name {
	case "ascii":
		c.casemap = CasemapASCII
	case "rfc1459", "rfc1459-strict":
		c.casemap = CasemapRFC1459
	}
}

// SetChanTypes applies the ISUPPORT CHANTYPES value.
func (c *Connection) SetChanTypes(chantypes string) {
	c.chantypes = chantypes
}

func (c *Connection) Casemap(name string) string {
	if c == nil || c.casemap == nil {
		return CasemapRFC1459(name)
	}
	return c.casemap(name)
}

func (c *Connection) IsMe(nick string) bool {
	return c != nil && nick != "" && c.Casemap(c.Nick) == c.Casemap(nick)
}

func (c *Connection) IsChannel(name string) bool {
	chantypes := "#&"
	if c != nil {
		chantypes = c.chantypes
	}
	return strings.IndexAny(name, chantypes) == 0
}

func (c *Connection) String() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Buffer is a conversation context: a server connection (sticky), a channel
// or a query.
type Buffer struct {
	Title      string
	Connection *Connection
	Sticky     bool
	Active     bool
	Model      *BufferModel
	Channel    *Channel // nil unless the buffer is a joined channel
}

// NewServerBuffer returns the sticky buffer of a connection.
func NewServerBuffer(conn *Connection, model *BufferModel) *Buffer {
	return &Buffer{
		Title:      conn.String(),
		Connection: conn,
		Sticky:     true,
		Active:     true,
		Model:      model,
	}
}

// NewBuffer returns a channel buffer if title is a channel name, a query
// buffer otherwise.
func NewBuffer(conn *Connection, model *BufferModel, title string) *Buffer {
	b := &Buffer{
		Title:      title,
		Connection: conn,
		Active:     true,
		Model:      model,
	}
	if conn.IsChannel(title) {
		b.Channel = NewChannel(title, conn.Casemap)
	}
	return b
}

// Name is the title without its channel type prefix.
func (b *Buffer) Name() string {
	if b.Channel == nil {
		return b.Title
	}
	return strings.TrimLeft(b.Title, "#&!+")
}

func (b *Buffer) IsChannel() bool {
	return b.Channel != nil
}

type SortMethod int

const (
	// SortByTitle sorts by casemapped title, prefixes included.
	SortByTitle SortMethod = iota
	// SortByName sorts by casemapped name, channel prefixes excluded.
	SortByName
	// SortByActivity sorts the most recently active buffers first.
	SortByActivity
)

// BufferModel supplies the ordering of buffers under a connection.
type BufferModel struct {
	SortMethod SortMethod

	activity map[*Buffer]time.Time
}

func NewBufferModel(method SortMethod) *BufferModel {
	return &BufferModel{
		SortMethod: method,
		activity:   map[*Buffer]time.Time{},
	}
}

// Touch records activity in b.
func (m *BufferModel) Touch(b *Buffer, t time.Time) {
	if m.activity == nil {
		m.activity = map[*Buffer]time.Time{}
	}
	if m.activity[b].Before(t) {
		m.activity[b] = t
	}
}

// Forget drops the activity bookkeeping of b.
func (m *BufferModel) Forget(b *Buffer) {
	delete(m.activity, b)
}

// Less reports whether a sorts before b. Sticky buffers come first.
func (m *BufferModel) Less(a, b *Buffer) bool {
	if a.Sticky != b.Sticky {
		return a.Sticky
	}
	switch m.SortMethod {
	case SortByActivity:
		ta, tb := m.activity[a], m.activity[b]
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
	case SortByName:
		na, nb := a.Connection.Casemap(a.Name()), b.Connection.Casemap(b.Name())
		if na != nb {
			return na < nb
		}
	}
	return a.Connection.Casemap(a.Title) < b.Connection.Casemap(b.Title)
}
