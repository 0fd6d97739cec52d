package events

import "testing"

func TestParseLink(t *testing.T) {
	if ev := ParseLink(""); ev != nil {
		t.Errorf("expected nil for an empty href, got %#v", ev)
	}
	if ev := ParseLink("nick:"); ev != nil {
		t.Errorf("expected nil for an empty nick, got %#v", ev)
	}
	if ev := ParseLink("channel:"); ev != nil {
		t.Errorf("expected nil for an empty channel, got %#v", ev)
	}

	if ev, ok := ParseLink("nick:bob").(*EventClickNick); !ok || ev.Nick != "bob" || ev.Href != "nick:bob" {
		t.Errorf("unexpected nick click %#v", ev)
	}
	if _, ok := ParseLink("expand:").(*EventClickExpand); !ok {
		t.Errorf("expected an expand click")
	}
	if ev, ok := ParseLink("channel:#go").(*EventClickChannel); !ok || ev.Channel != "#go" {
		t.Errorf("unexpected channel click %#v", ev)
	}
	if ev, ok := ParseLink("https://example.org/a?b=c").(*EventClickLink); !ok || ev.Link != "https://example.org/a?b=c" {
		t.Errorf("unexpected link click %#v", ev)
	}
}
