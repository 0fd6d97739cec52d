package ircview

import (
	"strings"
	"testing"

	"git.sr.ht/~delthas/ircview/irc"
)

func bracket(name string) string {
	return "[" + name + "]"
}

func TestNameIndexLinkify(t *testing.T) {
	idx := NewNameIndex([]string{"alice", "alice_", "bob", "", "été"})
	if n := idx.Len(); n != 4 {
		t.Errorf("expected 4 names, got %d", n)
	}

	for _, tc := range []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hi alice!", "hi [alice]!"},
		{"alice_ and alice", "[alice_] and [alice]"},
		{"bobby malice", "bobby malice"},
		{"alice's cat", "alice's cat"},
		{"bob,bob", "[bob],[bob]"},
		{"(été)", "([été])"},
		{"<b>bob</b>", "<b>[bob]</b>"},
		{"<span class='bob'>x</span>", "<span class='bob'>x</span>"},
		{"&bob; bob", "&bob; [bob]"},
		{"<a href='nick:bob'>bob</a> bob", "<a href='nick:bob'>bob</a> [bob]"},
	} {
		if actual := idx.Linkify(tc.input, bracket); actual != tc.expected {
			t.Errorf("%q: expected %q, got %q", tc.input, tc.expected, actual)
		}
	}

	var empty NameIndex
	if s := empty.Linkify("bob", bracket); s != "bob" {
		t.Errorf("empty index changed the text: %q", s)
	}
}

func TestNameIndexComplete(t *testing.T) {
	idx := NewNameIndex([]string{"Bob[m]", "bobby", "alice", "Bert"})

	if names := idx.Complete("bo", nil); strings.Join(names, " ") != "Bob[m] bobby" {
		t.Errorf("unexpected completions %v", names)
	}
	if names := idx.Complete("BOB{", irc.CasemapRFC1459); strings.Join(names, " ") != "Bob[m]" {
		t.Errorf("unexpected casemapped completions %v", names)
	}
	if names := idx.Complete("z", nil); len(names) != 0 {
		t.Errorf("unexpected completions %v", names)
	}
}
