package irc

import (
	"strings"
	"testing"
)

func TestChannelSetNames(t *testing.T) {
	c := NewChannel("#go", nil)
	c.SetNames([]string{"bob", "@alice", "+carol", "@+dave", "", "@"})

	expected := []string{"@alice", "@dave", "+carol", "bob"}
	if actual := c.Titles(); strings.Join(actual, " ") != strings.Join(expected, " ") {
		t.Errorf("expected titles %v, got %v", expected, actual)
	}
	if names := c.Names(); strings.Join(names, " ") != "alice dave carol bob" {
		t.Errorf("unexpected names %v", names)
	}
	for _, m := range c.Members() {
		if m.Name == "dave" && m.PowerLevel != "@+" {
			t.Errorf("expected dave power level %q, got %q", "@+", m.PowerLevel)
		}
	}
}

func TestChannelMembership(t *testing.T) {
	c := NewChannel("#go", nil)
	c.SetNames([]string{"alice", "Bob[m]"})

	if !c.Has("BOB{M}") {
		t.Errorf("expected rfc1459 lookup to match")
	}

	c.Add("carol", "+")
	c.Rename("bob[m]", "robert")
	c.Remove("alice")
	c.Remove("nobody")

	if names := c.Names(); strings.Join(names, " ") != "carol robert" {
		t.Errorf("unexpected names %v", names)
	}
	if c.Has("bob[m]") {
		t.Errorf("former nick still present")
	}
}

func TestChannelOnNamesChanged(t *testing.T) {
	c := NewChannel("#go", CasemapASCII)

	var calls int
	var last []string
	cancel := c.OnNamesChanged(func(names []string) {
		calls++
		last = names
	})

	c.SetNames([]string{"b", "a"})
	c.Add("c", "")
	c.Add("c", "") // unchanged
	c.Remove("x")  // absent
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if strings.Join(last, " ") != "a b c" {
		t.Errorf("unexpected names %v", last)
	}

	cancel()
	c.Remove("a")
	if calls != 2 {
		t.Errorf("listener called after cancel")
	}
}

func TestCasemap(t *testing.T) {
	for _, tc := range []struct {
		input   string
		ascii   string
		rfc1459 string
	}{
		{"Alice", "alice", "alice"},
		{"Bob[m]", "bob[m]", "bob{m}"},
		{"a\\b~", "a\\b~", "a|b^"},
		{"ÉTÉ", "ÉTÉ", "ÉTÉ"},
	} {
		if actual := CasemapASCII(tc.input); actual != tc.ascii {
			t.Errorf("ascii %q: expected %q, got %q", tc.input, tc.ascii, actual)
		}
		if actual := CasemapRFC1459(tc.input); actual != tc.rfc1459 {
			t.Errorf("rfc1459 %q: expected %q, got %q", tc.input, tc.rfc1459, actual)
		}
	}
}
