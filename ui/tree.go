package ui

import (
	"sort"
	"strings"
	"time"

	"git.sr.ht/~rockorager/vaxis"

	"git.sr.ht/~delthas/ircview/irc"
)

// BadgeException is a sender whose messages never increase unread badges.
type BadgeException struct {
	Nick  string
	Ident string
}

// DefaultBadgeExceptions skips the playback notices of ZNC bouncers.
var DefaultBadgeExceptions = []BadgeException{
	{Nick: "***", Ident: "znc"},
}

type TreeConfig struct {
	// ResetDelay is how long a node keeps its badge after being selected.
	ResetDelay      time.Duration
	BadgeExceptions []BadgeException
	Palette         Palette
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		ResetDelay:      500 * time.Millisecond,
		BadgeExceptions: DefaultBadgeExceptions,
		Palette:         DefaultPalette,
	}
}

// TreeCallbacks are notified of tree changes. Nil fields are ignored.
type TreeCallbacks struct {
	CurrentBufferChanged func(b *irc.Buffer) // b is nil when nothing is selected
	BufferClosed         func(b *irc.Buffer)
	BufferAdded          func(b *irc.Buffer)
	BufferRemoved        func(b *irc.Buffer)
	Highlighted          func(b *irc.Buffer)
}

// BufferNode is a row of the tree. Connection buffers are roots; channels
// and queries are their children.
type BufferNode struct {
	buffer   *irc.Buffer
	parent   *BufferNode
	children []*BufferNode

	badge       int
	highlighted bool
	expanded    bool

	foreground      vaxis.Color
	badgeBackground vaxis.Color
}

func (n *BufferNode) Buffer() *irc.Buffer {
	return n.buffer
}

func (n *BufferNode) Parent() *BufferNode {
	return n.parent
}

func (n *BufferNode) Children() []*BufferNode {
	return append([]*BufferNode(nil), n.children...)
}

func (n *BufferNode) IsRoot() bool {
	return n.parent == nil
}

// Badge is the unread counter of the node itself.
func (n *BufferNode) Badge() int {
	return n.badge
}

// DisplayBadge is the counter to show: collapsed nodes include the badges of
// their children.
func (n *BufferNode) DisplayBadge() int {
	badge := n.badge
	if !n.expanded {
		for _, c := range n.children {
			badge += c.badge
		}
	}
	return badge
}

func (n *BufferNode) Highlighted() bool {
	return n.highlighted
}

func (n *BufferNode) Expanded() bool {
	return n.expanded
}

// Foreground is the color of the title. ColorDefault means the palette text
// color.
func (n *BufferNode) Foreground() vaxis.Color {
	return n.foreground
}

// BadgeBackground is the color behind the badge.
func (n *BufferNode) BadgeBackground() vaxis.Color {
	return n.badgeBackground
}

func (n *BufferNode) hasHighlightedChild() bool {
	for _, c := range n.children {
		if c.highlighted {
			return true
		}
	}
	return false
}

// BufferTree is the view-model of the buffer list.
//
// It is not safe for concurrent use: all methods, and the callbacks of its
// Scheduler and SharedTimer, must run on the UI goroutine.
type BufferTree struct {
	cfg   TreeConfig
	sched Scheduler
	timer *SharedTimer
	cb    TreeCallbacks

	roots           []*BufferNode
	nodes           map[*irc.Buffer]*BufferNode
	connectionNodes map[*irc.Connection]*BufferNode
	connections     []*irc.Connection // in registration order

	current     *BufferNode
	block       bool
	resetQueue  []*BufferNode
	highlighted []*BufferNode
	blink       bool
}

// NewBufferTree returns an empty tree. Badge resets are scheduled on sched;
// highlighted nodes blink with timer.
func NewBufferTree(cfg TreeConfig, sched Scheduler, timer *SharedTimer) *BufferTree {
	return &BufferTree{
		cfg:             cfg,
		sched:           sched,
		timer:           timer,
		nodes:           map[*irc.Buffer]*BufferNode{},
		connectionNodes: map[*irc.Connection]*BufferNode{},
	}
}

func (t *BufferTree) SetCallbacks(cb TreeCallbacks) {
	t.cb = cb
}

// Node returns the node of b, or nil.
func (t *BufferTree) Node(b *irc.Buffer) *BufferNode {
	return t.nodes[b]
}

// ConnectionNode returns the root node of conn, or nil.
func (t *BufferTree) ConnectionNode(conn *irc.Connection) *BufferNode {
	return t.connectionNodes[conn]
}

func (t *BufferTree) Roots() []*BufferNode {
	return append([]*BufferNode(nil), t.roots...)
}

// Rows returns the visible nodes in display order: each root followed by its
// children when expanded.
func (t *BufferTree) Rows() []*BufferNode {
	rows := make([]*BufferNode, 0, len(t.nodes))
	for _, r := range t.roots {
		rows = append(rows, r)
		if r.expanded {
			rows = append(rows, r.children...)
		}
	}
	return rows
}

func (t *BufferTree) Len() int {
	return len(t.nodes)
}

func (t *BufferTree) CurrentBuffer() *irc.Buffer {
	if t.current == nil {
		return nil
	}
	return t.current.buffer
}

func (t *BufferTree) CurrentNode() *BufferNode {
	return t.current
}

// Blinking reports whether the highlight timer is registered.
func (t *BufferTree) Blinking() bool {
	return len(t.highlighted) > 0
}

// AddBuffer inserts a node for b. Sticky buffers become roots and register
// their connection; other buffers are attached under the root of their
// connection.
func (t *BufferTree) AddBuffer(b *irc.Buffer) {
	if b == nil || t.nodes[b] != nil {
		return
	}
	n := &BufferNode{
		buffer: b,
	}
	if b.Sticky {
		n.expanded = true
		if t.connectionNodes[b.Connection] == nil {
			t.connectionNodes[b.Connection] = n
		}
		if indexOfConnection(t.connections, b.Connection) < 0 {
			t.connections = append(t.connections, b.Connection)
		}
		t.roots = append(t.roots, n)
	} else if parent := t.connectionNodes[b.Connection]; parent != nil {
		n.parent = parent
		parent.children = append(parent.children, n)
	} else {
		t.roots = append(t.roots, n)
	}
	t.nodes[b] = n
	t.colorize(n)
	t.sort()
	if t.cb.BufferAdded != nil {
		t.cb.BufferAdded(b)
	}
}

// RemoveBuffer discards the node of b and the nodes under it. Removing a
// sticky buffer also drops its connection from the root order.
func (t *BufferTree) RemoveBuffer(b *irc.Buffer) {
	n := t.nodes[b]
	if n == nil {
		return
	}
	if b.Sticky {
		if t.connectionNodes[b.Connection] == n {
			delete(t.connectionNodes, b.Connection)
		}
		if i := indexOfConnection(t.connections, b.Connection); i >= 0 {
			t.connections = append(t.connections[:i], t.connections[i+1:]...)
		}
	}

	var next *BufferNode
	replaceCurrent := t.current != nil && (t.current == n || t.current.parent == n)
	if replaceCurrent {
		next = t.neighbor(n)
	}

	if n.parent != nil {
		n.parent.children = removeNode(n.parent.children, n)
		t.colorize(n.parent)
	} else {
		t.roots = removeNode(t.roots, n)
	}

	removed := append([]*BufferNode{n}, n.children...)
	for _, rn := range removed {
		t.destroy(rn)
	}
	n.children = nil

	if replaceCurrent {
		t.current = nil
		if next != nil {
			t.setCurrent(next)
		} else if t.cb.CurrentBufferChanged != nil {
			t.cb.CurrentBufferChanged(nil)
		}
	}
	for _, rn := range removed {
		if t.cb.BufferRemoved != nil {
			t.cb.BufferRemoved(rn.buffer)
		}
	}
}

// neighbor returns the row following n and its children in display order,
// or the row preceding n if n is last.
func (t *BufferTree) neighbor(n *BufferNode) *BufferNode {
	rows := t.Rows()
	idx := -1
	for i, r := range rows {
		if r == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Hidden under a collapsed root.
		return n.parent
	}
	for i := idx + 1; i < len(rows); i++ {
		if rows[i].parent != n {
			return rows[i]
		}
	}
	if idx > 0 {
		return rows[idx-1]
	}
	return nil
}

func (t *BufferTree) destroy(n *BufferNode) {
	delete(t.nodes, n.buffer)
	for i := 0; i < len(t.resetQueue); i++ {
		if t.resetQueue[i] == n {
			t.resetQueue = append(t.resetQueue[:i], t.resetQueue[i+1:]...)
			i--
		}
	}
	if n.highlighted {
		t.highlighted = removeNode(t.highlighted, n)
		n.highlighted = false
		if len(t.highlighted) == 0 {
			t.timer.Unregister(t)
		}
	}
}

// SetCurrentBuffer selects the node of b. Unknown buffers are ignored.
func (t *BufferTree) SetCurrentBuffer(b *irc.Buffer) {
	if n := t.nodes[b]; n != nil {
		t.setCurrent(n)
	}
}

// CloseBuffer asks for b to be closed, or the current buffer if b is nil.
func (t *BufferTree) CloseBuffer(b *irc.Buffer) {
	if b == nil {
		b = t.CurrentBuffer()
	}
	if b != nil && t.cb.BufferClosed != nil {
		t.cb.BufferClosed(b)
	}
}

// BlockReset suspends badge resets and unhighlighting on selection changes.
// Unblocking applies them to the current node. It returns the previous
// state.
func (t *BufferTree) BlockReset(block bool) (wasBlocked bool) {
	wasBlocked = t.block
	if t.block != block {
		t.block = block
		if !block && t.current != nil {
			t.delayedReset(t.current)
			t.unhighlight(t.current)
		}
	}
	return wasBlocked
}

func (t *BufferTree) setCurrent(n *BufferNode) {
	if n == t.current {
		return
	}
	previous := t.current
	t.current = n
	if !t.block {
		if previous != nil {
			t.reset(previous)
			t.unhighlight(previous)
		}
		if n != nil {
			t.delayedReset(n)
			t.unhighlight(n)
		}
	}
	if t.cb.CurrentBufferChanged != nil {
		var b *irc.Buffer
		if n != nil {
			b = n.buffer
		}
		t.cb.CurrentBufferChanged(b)
	}
}

func (t *BufferTree) reset(n *BufferNode) {
	n.badge = 0
}

func (t *BufferTree) delayedReset(n *BufferNode) {
	t.resetQueue = append(t.resetQueue, n)
	t.sched.AfterFunc(t.cfg.ResetDelay, t.resetNext)
}

func (t *BufferTree) resetNext() {
	if len(t.resetQueue) == 0 {
		return
	}
	n := t.resetQueue[0]
	t.resetQueue = t.resetQueue[1:]
	t.reset(n)
}

func (t *BufferTree) isBadgeException(nick, ident string) bool {
	for _, e := range t.cfg.BadgeExceptions {
		if e.Nick == nick && e.Ident == ident {
			return true
		}
	}
	return false
}

// MessageReceived accounts for ev received in b. Only private messages and
// notices count: they increase the badge of a node that is not selected,
// and highlight it if they are private or mention our nickname.
func (t *BufferTree) MessageReceived(b *irc.Buffer, ev irc.Event) {
	var content string
	var private bool
	switch ev := ev.(type) {
	case irc.PrivateEvent:
		content, private = ev.Content, ev.Private
	case irc.NoticeEvent:
		content, private = ev.Content, ev.Private
	default:
		return
	}
	n := t.nodes[b]
	if n == nil || n == t.current {
		return
	}
	msg := ev.Header()
	if !t.isBadgeException(msg.Nick(), msg.Ident()) {
		n.badge++
	}
	conn := msg.Connection
	if conn == nil {
		conn = b.Connection
	}
	if private || mentions(content, conn) {
		t.highlight(n)
	}
}

func mentions(content string, conn *irc.Connection) bool {
	if conn == nil || conn.Nick == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(conn.Nick))
}

func (t *BufferTree) highlight(n *BufferNode) {
	if n == nil || n.highlighted {
		return
	}
	if len(t.highlighted) == 0 {
		t.timer.Register(t, t.blinkNodes)
	}
	t.highlighted = append(t.highlighted, n)
	n.highlighted = true
	t.colorize(n)
	if t.cb.Highlighted != nil {
		t.cb.Highlighted(n.buffer)
	}
}

func (t *BufferTree) unhighlight(n *BufferNode) {
	if n == nil || !n.highlighted {
		return
	}
	t.highlighted = removeNode(t.highlighted, n)
	if len(t.highlighted) == 0 {
		t.timer.Unregister(t)
	}
	n.highlighted = false
	t.colorize(n)
}

func (t *BufferTree) blinkNodes() {
	for _, n := range t.highlighted {
		t.colorize(n)
	}
	t.blink = !t.blink
}

// SetExpanded expands or collapses the node of b.
func (t *BufferTree) SetExpanded(b *irc.Buffer, expanded bool) {
	n := t.nodes[b]
	if n == nil || n.expanded == expanded {
		return
	}
	n.expanded = expanded
	t.colorize(n)
}

// Refresh recomputes the colors of the node of b, after its activity
// changed.
func (t *BufferTree) Refresh(b *irc.Buffer) {
	if n := t.nodes[b]; n != nil {
		t.colorize(n)
		t.sort()
	}
}

func (t *BufferTree) textColor(b *irc.Buffer) vaxis.Color {
	if b.Active {
		return t.cfg.Palette.Text
	}
	return t.cfg.Palette.DisabledText
}

// tinted reports whether the title of n shows the highlighted text color in
// the current blink phase. Collapsed roots also reflect their children.
func (t *BufferTree) tinted(n *BufferNode) bool {
	if !t.blink {
		return false
	}
	if n.highlighted {
		return true
	}
	return n.parent == nil && !n.expanded && n.hasHighlightedChild()
}

func (t *BufferTree) colorize(n *BufferNode) {
	if t.tinted(n) {
		n.foreground = t.cfg.Palette.HighlightedText
	} else {
		n.foreground = t.textColor(n.buffer)
	}
	if t.blink && n.highlighted {
		n.badgeBackground = t.cfg.Palette.Highlight
	} else {
		n.badgeBackground = ColorDefault
	}

	if p := n.parent; p != nil {
		if t.tinted(p) {
			p.foreground = t.cfg.Palette.HighlightedText
		} else {
			p.foreground = t.textColor(p.buffer)
		}
	}
}

// sort orders roots by connection registration and children with the model
// of their buffers.
func (t *BufferTree) sort() {
	sort.SliceStable(t.roots, func(i, j int) bool {
		a, b := t.roots[i], t.roots[j]
		ia := indexOfConnection(t.connections, a.buffer.Connection)
		ib := indexOfConnection(t.connections, b.buffer.Connection)
		if ia != ib {
			if ia < 0 || ib < 0 {
				// Orphans go last.
				return ib < 0
			}
			return ia < ib
		}
		return lessBuffer(a.buffer, b.buffer)
	})
	for _, r := range t.roots {
		children := r.children
		sort.SliceStable(children, func(i, j int) bool {
			return lessBuffer(children[i].buffer, children[j].buffer)
		})
	}
}

func lessBuffer(a, b *irc.Buffer) bool {
	if a.Model != nil {
		return a.Model.Less(a, b)
	}
	if a.Sticky != b.Sticky {
		return a.Sticky
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

func (t *BufferTree) currentRow(rows []*BufferNode) int {
	for i, r := range rows {
		if r == t.current {
			return i
		}
	}
	return -1
}

// SelectNext selects the next visible row, wrapping around.
func (t *BufferTree) SelectNext() {
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}
	i := t.currentRow(rows)
	t.setCurrent(rows[(i+1)%len(rows)])
}

// SelectPrevious selects the previous visible row, wrapping around.
func (t *BufferTree) SelectPrevious() {
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}
	i := t.currentRow(rows)
	if i < 0 {
		i = 0
	}
	t.setCurrent(rows[(i-1+len(rows))%len(rows)])
}

func unread(n *BufferNode) bool {
	return n.badge > 0 || n.highlighted
}

// SelectNextUnread selects the next visible row with a badge or a
// highlight.
func (t *BufferTree) SelectNextUnread() {
	rows := t.Rows()
	i := t.currentRow(rows)
	for k := 1; k <= len(rows); k++ {
		c := (i + k + len(rows)) % len(rows)
		if unread(rows[c]) {
			t.setCurrent(rows[c])
			return
		}
	}
}

// SelectPreviousUnread selects the previous visible row with a badge or a
// highlight.
func (t *BufferTree) SelectPreviousUnread() {
	rows := t.Rows()
	i := t.currentRow(rows)
	if i < 0 {
		i = 0
	}
	for k := 1; k <= len(rows); k++ {
		c := (i - k + 2*len(rows)) % len(rows)
		if unread(rows[c]) {
			t.setCurrent(rows[c])
			return
		}
	}
}

func indexOfConnection(conns []*irc.Connection, conn *irc.Connection) int {
	for i, c := range conns {
		if c == conn {
			return i
		}
	}
	return -1
}

func removeNode(nodes []*BufferNode, n *BufferNode) []*BufferNode {
	for i, c := range nodes {
		if c == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}
