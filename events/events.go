package events

import "strings"

type EventClick struct {
	Href string
}

type EventClickNick struct {
	EventClick
	Nick string
}

// EventClickExpand is a click on the "!" marker of an event line.
type EventClickExpand struct {
	EventClick
}

type EventClickChannel struct {
	EventClick
	Channel string
}

type EventClickLink struct {
	EventClick
	Link string
}

// ParseLink decodes the href of an anchor produced by the formatter. It
// returns nil for empty hrefs.
func ParseLink(href string) any {
	click := EventClick{Href: href}
	switch {
	case href == "":
		return nil
	case strings.HasPrefix(href, "nick:"):
		nick := strings.TrimPrefix(href, "nick:")
		if nick == "" {
			return nil
		}
		return &EventClickNick{
			EventClick: click,
			Nick:       nick,
		}
	case strings.HasPrefix(href, "expand:"):
		return &EventClickExpand{
			EventClick: click,
		}
	case strings.HasPrefix(href, "channel:"):
		channel := strings.TrimPrefix(href, "channel:")
		if channel == "" {
			return nil
		}
		return &EventClickChannel{
			EventClick: click,
			Channel:    channel,
		}
	default:
		return &EventClickLink{
			EventClick: click,
			Link:       href,
		}
	}
}
