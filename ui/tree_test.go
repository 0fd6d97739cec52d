package ui

import (
	"testing"
	"time"

	"git.sr.ht/~delthas/ircview/irc"
)

const testInterval = 500 * time.Millisecond

type treeFixture struct {
	sched *fakeScheduler
	timer *SharedTimer
	tree  *BufferTree

	changed []*irc.Buffer
	closed  []*irc.Buffer
	removed []*irc.Buffer
}

func newTreeFixture() *treeFixture {
	f := &treeFixture{
		sched: &fakeScheduler{},
	}
	f.timer = NewSharedTimer(f.sched, testInterval)
	f.tree = NewBufferTree(DefaultTreeConfig(), f.sched, f.timer)
	f.tree.SetCallbacks(TreeCallbacks{
		CurrentBufferChanged: func(b *irc.Buffer) {
			f.changed = append(f.changed, b)
		},
		BufferClosed: func(b *irc.Buffer) {
			f.closed = append(f.closed, b)
		},
		BufferRemoved: func(b *irc.Buffer) {
			f.removed = append(f.removed, b)
		},
	})
	return f
}

func newConnection(id string) (*irc.Connection, *irc.Buffer) {
	conn := irc.NewConnection(id, id, "me")
	model := irc.NewBufferModel(irc.SortByTitle)
	return conn, irc.NewServerBuffer(conn, model)
}

func privmsg(nick, ident, content string) irc.PrivateEvent {
	return irc.PrivateEvent{
		Message: irc.Message{
			Prefix:  &irc.Prefix{Name: nick, User: ident, Host: "example.org"},
			Command: "PRIVMSG",
		},
		Content: content,
	}
}

func titles(nodes []*BufferNode) []string {
	var s []string
	for _, n := range nodes {
		s = append(s, n.Buffer().Title)
	}
	return s
}

func assertTitles(t *testing.T, nodes []*BufferNode, expected ...string) {
	t.Helper()
	actual := titles(nodes)
	if len(actual) != len(expected) {
		t.Fatalf("expected rows %q, got %q", expected, actual)
	}
	for i := range actual {
		if actual[i] != expected[i] {
			t.Fatalf("expected rows %q, got %q", expected, actual)
		}
	}
}

func TestTreeAddBuffer(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	zeta := irc.NewBuffer(conn, server.Model, "#zeta")
	alpha := irc.NewBuffer(conn, server.Model, "#alpha")
	f.tree.AddBuffer(zeta)
	f.tree.AddBuffer(alpha)

	if n := f.tree.Node(server); n == nil || !n.IsRoot() || !n.Expanded() {
		t.Fatalf("server buffer is not an expanded root")
	}
	if p := f.tree.Node(zeta).Parent(); p != f.tree.Node(server) {
		t.Errorf("channel not attached under its connection")
	}
	if f.tree.ConnectionNode(conn) != f.tree.Node(server) {
		t.Errorf("connection node not registered")
	}
	assertTitles(t, f.tree.Rows(), "libera", "#alpha", "#zeta")

	// Adding twice is a no-op.
	f.tree.AddBuffer(alpha)
	if n := f.tree.Len(); n != 3 {
		t.Errorf("expected 3 nodes, got %d", n)
	}
}

func TestTreeRootOrder(t *testing.T) {
	f := newTreeFixture()
	_, b := newConnection("b")
	_, a := newConnection("a")
	f.tree.AddBuffer(b)
	f.tree.AddBuffer(a)
	assertTitles(t, f.tree.Roots(), "b", "a")
}

func TestTreeRemoveRoot(t *testing.T) {
	f := newTreeFixture()
	connA, serverA := newConnection("a")
	_, serverB := newConnection("b")
	f.tree.AddBuffer(serverA)
	f.tree.AddBuffer(serverB)
	chanA := irc.NewBuffer(connA, serverA.Model, "#a")
	f.tree.AddBuffer(chanA)

	f.tree.RemoveBuffer(serverA)
	if f.tree.ConnectionNode(connA) != nil {
		t.Errorf("connection still registered after removing its root")
	}
	if f.tree.Node(serverA) != nil || f.tree.Node(chanA) != nil {
		t.Errorf("nodes still present after removing their root")
	}
	if len(f.removed) != 2 {
		t.Errorf("expected 2 removed buffers, got %d", len(f.removed))
	}
	assertTitles(t, f.tree.Roots(), "b")

	// Without its root, a buffer of the connection becomes a root itself,
	// after the registered connections.
	query := irc.NewBuffer(connA, serverA.Model, "alice")
	f.tree.AddBuffer(query)
	if !f.tree.Node(query).IsRoot() {
		t.Errorf("orphan buffer is not a root")
	}
	assertTitles(t, f.tree.Roots(), "b", "alice")
}

func TestTreeBadge(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)
	n := f.tree.Node(ch)

	f.tree.MessageReceived(ch, privmsg("alice", "a", "hello"))
	if n.Badge() != 1 {
		t.Fatalf("expected badge 1, got %d", n.Badge())
	}
	f.tree.MessageReceived(ch, privmsg("***", "znc", "Buffer Playback..."))
	if n.Badge() != 1 {
		t.Errorf("znc playback increased the badge to %d", n.Badge())
	}
	f.tree.MessageReceived(ch, privmsg("***", "someone", "hi"))
	if n.Badge() != 2 {
		t.Errorf("expected badge 2, got %d", n.Badge())
	}
	f.tree.MessageReceived(ch, irc.NoticeEvent{
		Message: irc.Message{Prefix: &irc.Prefix{Name: "bot"}},
		Content: "notice",
	})
	if n.Badge() != 3 {
		t.Errorf("expected notices to count, got %d", n.Badge())
	}
	f.tree.MessageReceived(ch, irc.JoinEvent{
		Message: irc.Message{Prefix: &irc.Prefix{Name: "bob"}},
		Channel: "#go",
	})
	if n.Badge() != 3 {
		t.Errorf("expected joins not to count, got %d", n.Badge())
	}

	f.tree.SetCurrentBuffer(ch)
	f.sched.Advance(time.Second)
	f.tree.MessageReceived(ch, privmsg("alice", "a", "hello"))
	if n.Badge() != 0 {
		t.Errorf("current buffer badge increased to %d", n.Badge())
	}
}

func TestTreeDelayedReset(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)
	n := f.tree.Node(ch)

	f.tree.MessageReceived(ch, privmsg("alice", "a", "one"))
	f.tree.MessageReceived(ch, privmsg("alice", "a", "two"))

	f.tree.SetCurrentBuffer(ch)
	if n.Badge() != 2 {
		t.Fatalf("badge reset immediately on selection: %d", n.Badge())
	}
	f.sched.Advance(499 * time.Millisecond)
	if n.Badge() != 2 {
		t.Fatalf("badge reset before the delay: %d", n.Badge())
	}
	f.sched.Advance(time.Millisecond)
	if n.Badge() != 0 {
		t.Fatalf("badge not reset after the delay: %d", n.Badge())
	}
	if len(f.changed) != 1 || f.changed[0] != ch {
		t.Errorf("expected one current buffer change, got %v", f.changed)
	}
}

func TestTreeResetOnDeselect(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	a := irc.NewBuffer(conn, server.Model, "#a")
	b := irc.NewBuffer(conn, server.Model, "#b")
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)

	f.tree.MessageReceived(a, privmsg("alice", "a", "hi"))
	f.tree.SetCurrentBuffer(a)
	f.tree.SetCurrentBuffer(b)
	if badge := f.tree.Node(a).Badge(); badge != 0 {
		t.Errorf("deselected buffer kept its badge: %d", badge)
	}
}

func TestTreeHighlight(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	conn.Nick = "Bob"
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)
	n := f.tree.Node(ch)

	f.tree.MessageReceived(ch, privmsg("alice", "a", "unrelated"))
	if n.Highlighted() {
		t.Fatalf("highlighted without mention")
	}
	f.tree.MessageReceived(ch, privmsg("alice", "a", "hey bob!"))
	if !n.Highlighted() {
		t.Fatalf("mention did not highlight")
	}
	if !f.timer.Active() || !f.tree.Blinking() {
		t.Fatalf("blink timer not registered")
	}

	f.tree.SetCurrentBuffer(ch)
	if n.Highlighted() {
		t.Errorf("selection did not unhighlight")
	}
	if f.timer.Active() {
		t.Errorf("blink timer still registered without highlighted nodes")
	}
}

func TestTreePrivateHighlight(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	query := irc.NewBuffer(conn, server.Model, "alice")
	f.tree.AddBuffer(query)

	ev := privmsg("alice", "a", "ping")
	ev.Private = true
	f.tree.MessageReceived(query, ev)
	if !f.tree.Node(query).Highlighted() {
		t.Errorf("private message did not highlight")
	}
}

func TestTreeEmptyNickNeverHighlights(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	conn.Nick = ""
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)

	f.tree.MessageReceived(ch, privmsg("alice", "a", "anything"))
	if f.tree.Node(ch).Highlighted() {
		t.Errorf("empty nickname highlighted")
	}
}

func TestTreeBlink(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)
	n := f.tree.Node(ch)
	root := f.tree.Node(server)
	pal := DefaultPalette

	f.tree.MessageReceived(ch, privmsg("alice", "a", "hi me"))
	if n.Foreground() != pal.Text {
		t.Fatalf("expected neutral color before the first tick")
	}

	// Each tick colors with the current phase, then toggles it.
	f.sched.Advance(testInterval)
	if n.Foreground() != pal.Text {
		t.Errorf("expected neutral color after the first tick")
	}
	f.sched.Advance(testInterval)
	if n.Foreground() != pal.HighlightedText || n.BadgeBackground() != pal.Highlight {
		t.Errorf("expected highlighted colors after the second tick")
	}
	if root.Foreground() != pal.Text {
		t.Errorf("expanded root reflects the highlight of its child")
	}
	f.sched.Advance(testInterval)
	if n.Foreground() != pal.Text || n.BadgeBackground() != ColorDefault {
		t.Errorf("expected neutral colors after the third tick")
	}

	f.tree.SetExpanded(server, false)
	f.sched.Advance(testInterval)
	if root.Foreground() != pal.HighlightedText {
		t.Errorf("collapsed root does not reflect the highlight of its child")
	}
	f.sched.Advance(testInterval)
	if root.Foreground() != pal.Text {
		t.Errorf("collapsed root did not blink back")
	}
}

func TestTreeInactiveColor(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)

	ch.Active = false
	f.tree.Refresh(ch)
	if f.tree.Node(ch).Foreground() != DefaultPalette.DisabledText {
		t.Errorf("inactive buffer not shown disabled")
	}
}

func TestTreeBlockReset(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)
	n := f.tree.Node(ch)

	ev := privmsg("alice", "a", "hi")
	ev.Private = true
	f.tree.MessageReceived(ch, ev)

	if wasBlocked := f.tree.BlockReset(true); wasBlocked {
		t.Errorf("tree blocked initially")
	}
	f.tree.SetCurrentBuffer(ch)
	f.sched.Advance(time.Second)
	if n.Badge() != 1 || !n.Highlighted() {
		t.Fatalf("blocked selection reset the node")
	}

	if wasBlocked := f.tree.BlockReset(false); !wasBlocked {
		t.Errorf("BlockReset did not report the previous state")
	}
	if n.Highlighted() {
		t.Errorf("unblocking did not unhighlight the current node")
	}
	if n.Badge() != 1 {
		t.Errorf("unblocking reset the badge immediately")
	}
	f.sched.Advance(time.Second)
	if n.Badge() != 0 {
		t.Errorf("unblocking did not schedule a badge reset")
	}
}

func TestTreeCollapsedBadge(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	a := irc.NewBuffer(conn, server.Model, "#a")
	b := irc.NewBuffer(conn, server.Model, "#b")
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)
	f.tree.MessageReceived(a, privmsg("alice", "a", "1"))
	f.tree.MessageReceived(b, privmsg("alice", "a", "2"))
	f.tree.MessageReceived(server, privmsg("server", "", "3"))

	root := f.tree.Node(server)
	if root.DisplayBadge() != 1 {
		t.Errorf("expanded root shows %d, expected its own badge", root.DisplayBadge())
	}
	f.tree.SetExpanded(server, false)
	if root.DisplayBadge() != 3 {
		t.Errorf("collapsed root shows %d, expected 3", root.DisplayBadge())
	}
	assertTitles(t, f.tree.Rows(), "libera")
}

func TestTreeCloseBuffer(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	ch := irc.NewBuffer(conn, server.Model, "#go")
	f.tree.AddBuffer(ch)

	f.tree.CloseBuffer(nil)
	if len(f.closed) != 0 {
		t.Errorf("closed a buffer without selection")
	}
	f.tree.SetCurrentBuffer(ch)
	f.tree.CloseBuffer(nil)
	if len(f.closed) != 1 || f.closed[0] != ch {
		t.Errorf("expected the current buffer to be closed, got %v", f.closed)
	}
	// Closing is a request: the node stays until removed.
	if f.tree.Node(ch) == nil {
		t.Errorf("closing removed the node")
	}
}

func TestTreeRemoveCurrent(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	a := irc.NewBuffer(conn, server.Model, "#a")
	b := irc.NewBuffer(conn, server.Model, "#b")
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)

	f.tree.SetCurrentBuffer(a)
	f.tree.RemoveBuffer(a)
	if f.tree.CurrentBuffer() != b {
		t.Errorf("expected the next row to be selected")
	}
	f.tree.RemoveBuffer(b)
	if f.tree.CurrentBuffer() != server {
		t.Errorf("expected the previous row to be selected")
	}
	f.tree.RemoveBuffer(server)
	if f.tree.CurrentBuffer() != nil {
		t.Errorf("expected no selection in an empty tree")
	}
	if last := f.changed[len(f.changed)-1]; last != nil {
		t.Errorf("expected a nil current buffer notification")
	}
}

func TestTreeRemoveQueuedReset(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	a := irc.NewBuffer(conn, server.Model, "#a")
	b := irc.NewBuffer(conn, server.Model, "#b")
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)

	f.tree.MessageReceived(b, privmsg("alice", "a", "hi"))
	f.tree.SetCurrentBuffer(a)
	f.tree.RemoveBuffer(a)
	// The pending reset of a is dropped with it, b is selected in its place.
	f.sched.Advance(time.Second)
	if badge := f.tree.Node(b).Badge(); badge != 0 {
		t.Errorf("expected b to be reset, got %d", badge)
	}
}

func TestTreeNavigation(t *testing.T) {
	f := newTreeFixture()
	conn, server := newConnection("libera")
	f.tree.AddBuffer(server)
	a := irc.NewBuffer(conn, server.Model, "#a")
	b := irc.NewBuffer(conn, server.Model, "#b")
	c := irc.NewBuffer(conn, server.Model, "#c")
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)
	f.tree.AddBuffer(c)

	f.tree.SelectNext()
	if f.tree.CurrentBuffer() != server {
		t.Errorf("expected the first row to be selected")
	}
	f.tree.SelectPrevious()
	if f.tree.CurrentBuffer() != c {
		t.Errorf("expected selection to wrap to the last row")
	}
	f.tree.SelectNext()
	if f.tree.CurrentBuffer() != server {
		t.Errorf("expected selection to wrap to the first row")
	}

	f.tree.MessageReceived(b, privmsg("alice", "a", "hi"))
	f.tree.SelectNextUnread()
	if f.tree.CurrentBuffer() != b {
		t.Errorf("expected the unread buffer to be selected")
	}
	f.sched.Advance(time.Second)
	f.tree.SelectNextUnread()
	if f.tree.CurrentBuffer() != b {
		t.Errorf("selection moved without unread buffers")
	}
	f.tree.MessageReceived(a, privmsg("alice", "a", "hi"))
	f.tree.SelectPreviousUnread()
	if f.tree.CurrentBuffer() != a {
		t.Errorf("expected the previous unread buffer to be selected")
	}
}

func TestTreeActivitySort(t *testing.T) {
	f := newTreeFixture()
	conn := irc.NewConnection("libera", "libera", "me")
	model := irc.NewBufferModel(irc.SortByActivity)
	server := irc.NewServerBuffer(conn, model)
	a := irc.NewBuffer(conn, model, "#a")
	b := irc.NewBuffer(conn, model, "#b")
	f.tree.AddBuffer(server)
	f.tree.AddBuffer(a)
	f.tree.AddBuffer(b)

	model.Touch(b, time.Unix(100, 0))
	f.tree.Refresh(b)
	assertTitles(t, f.tree.Rows(), "libera", "#b", "#a")
	model.Touch(a, time.Unix(200, 0))
	f.tree.Refresh(a)
	assertTitles(t, f.tree.Rows(), "libera", "#a", "#b")
}
