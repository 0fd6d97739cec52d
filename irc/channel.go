package irc

import (
	"sort"
	"strings"
	"time"
)

// Member is a user present in a channel.
type Member struct {
	PowerLevel string // membership prefix symbols, such as "@" or "@+".
	Name       string
	Away       bool
	LastActive time.Time
}

// Title is the nickname prefixed by its highest membership symbol.
func (m Member) Title() string {
	if m.PowerLevel == "" {
		return m.Name
	}
	return m.PowerLevel[:1] + m.Name
}

type members struct {
	m        []Member
	prefixes string
	casemap  func(string) string
}

func (m members) Len() int {
	return len(m.m)
}

func (m members) Less(i, j int) bool {
	pi := powerRank(m.m[i].PowerLevel, m.prefixes)
	pj := powerRank(m.m[j].PowerLevel, m.prefixes)
	if pi != pj {
		return pi < pj
	}
	return m.casemap(m.m[i].Name) < m.casemap(m.m[j].Name)
}

func (m members) Swap(i, j int) {
	m.m[i], m.m[j] = m.m[j], m.m[i]
}

// powerRank is the index of the highest symbol of powerLevel in prefixes, or
// len(prefixes) for regular members.
func powerRank(powerLevel, prefixes string) int {
	rank := len(prefixes)
	for _, r := range powerLevel {
		if i := strings.IndexRune(prefixes, r); i >= 0 && i < rank {
			rank = i
		}
	}
	return rank
}

// Channel holds the membership of a joined channel.
//
// Listeners registered with OnNamesChanged are called synchronously after
// every membership change with the sorted list of nicknames.
type Channel struct {
	Name  string
	Topic string

	prefixes string
	casemap  func(string) string
	members  map[string]*Member // casemapped nick -> member

	listeners    map[int]func(names []string)
	nextListener int
}

func NewChannel(name string, casemap func(string) string) *Channel {
	if casemap == nil {
		casemap = CasemapRFC1459
	}
	return &Channel{
		Name:      name,
		prefixes:  "~&@%+",
		casemap:   casemap,
		members:   map[string]*Member{},
		listeners: map[int]func([]string){},
	}
}

// SetPrefixes sets the membership symbols, from highest to lowest, as
// announced by ISUPPORT PREFIX.
func (c *Channel) SetPrefixes(symbols string) {
	c.prefixes = symbols
}

// splitTitle splits "@+nick" into "@+" and "nick".
func (c *Channel) splitTitle(title string) (powerLevel, name string) {
	i := 0
	for i < len(title) && strings.IndexByte(c.prefixes, title[i]) >= 0 {
		i++
	}
	return title[:i], title[i:]
}

// SetNames replaces the whole membership with a NAMES list. Entries may carry
// membership prefixes.
func (c *Channel) SetNames(titles []string) {
	c.members = make(map[string]*Member, len(titles))
	for _, title := range titles {
		powerLevel, name := c.splitTitle(title)
		if name == "" {
			continue
		}
		c.members[c.casemap(name)] = &Member{
			PowerLevel: powerLevel,
			Name:       name,
		}
	}
	c.notify()
}

// Add adds a member, or updates its membership if already present.
func (c *Channel) Add(name, powerLevel string) {
	if name == "" {
		return
	}
	nameCf := c.casemap(name)
	if m, ok := c.members[nameCf]; ok {
		if m.PowerLevel == powerLevel {
			return
		}
		m.PowerLevel = powerLevel
	} else {
		c.members[nameCf] = &Member{
			PowerLevel: powerLevel,
			Name:       name,
		}
	}
	c.notify()
}

func (c *Channel) Remove(name string) {
	nameCf := c.casemap(name)
	if _, ok := c.members[nameCf]; !ok {
		return
	}
	delete(c.members, nameCf)
	c.notify()
}

func (c *Channel) Rename(former, name string) {
	formerCf := c.casemap(former)
	m, ok := c.members[formerCf]
	if !ok {
		return
	}
	delete(c.members, formerCf)
	m.Name = name
	c.members[c.casemap(name)] = m
	c.notify()
}

// Touch records activity of a member, used by activity-sorted user lists.
func (c *Channel) Touch(name string, t time.Time) {
	if m, ok := c.members[c.casemap(name)]; ok && m.LastActive.Before(t) {
		m.LastActive = t
	}
}

func (c *Channel) SetAway(name string, away bool) {
	if m, ok := c.members[c.casemap(name)]; ok {
		m.Away = away
	}
}

func (c *Channel) Has(name string) bool {
	_, ok := c.members[c.casemap(name)]
	return ok
}

// Members returns the members sorted by power level, then by name.
func (c *Channel) Members() []Member {
	ms := make([]Member, 0, len(c.members))
	for _, m := range c.members {
		ms = append(ms, *m)
	}
	sort.Sort(members{
		m:        ms,
		prefixes: c.prefixes,
		casemap:  c.casemap,
	})
	return ms
}

// Names returns the nicknames of the members, sorted like Members.
func (c *Channel) Names() []string {
	ms := c.Members()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

// Titles returns the nicknames prefixed by their membership symbol, sorted
// like Members.
func (c *Channel) Titles() []string {
	ms := c.Members()
	titles := make([]string, len(ms))
	for i, m := range ms {
		titles[i] = m.Title()
	}
	return titles
}

// OnNamesChanged registers f to be called after each membership change.
// The returned function unregisters it.
func (c *Channel) OnNamesChanged(f func(names []string)) (cancel func()) {
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = f
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Channel) notify() {
	if len(c.listeners) == 0 {
		return
	}
	names := c.Names()
	for _, f := range c.listeners {
		f(names)
	}
}

// CasemapASCII of name is the canonical representation of name according to
// the ascii casemapping.
func CasemapASCII(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CasemapRFC1459 of name is the canonical representation of name according
// to the rfc1459 casemapping.
func CasemapRFC1459(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		} else if r == '[' {
			r = '{'
		} else if r == ']' {
			r = '}'
		} else if r == '\\' {
			r = '|'
		} else if r == '~' {
			r = '^'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
