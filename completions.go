package ircview

import (
	"sort"
	"strings"

	"git.sr.ht/~delthas/ircview/irc"
)

// Completion is a candidate replacement of an input line.
type Completion struct {
	StartIdx  int
	EndIdx    int
	Text      []rune
	Display   []rune
	CursorIdx int
}

func (app *App) completionsChannelMembers(v *view, cs []Completion, cursorIdx int, text []rune) []Completion {
	var start int
	for start = cursorIdx - 1; 0 <= start; start-- {
		if text[start] == ' ' {
			break
		}
	}
	start++
	word := text[start:cursorIdx]
	if len(word) == 0 {
		return cs
	}
	conn := v.buffer.Connection
	for _, name := range v.formatter.Names().Complete(string(word), conn.Casemap) {
		nickComp := []rune(name)
		if start == 0 {
			nickComp = append(nickComp, ':')
		}
		nickComp = append(nickComp, ' ')
		c := make([]rune, len(text)+len(nickComp)-len(word))
		copy(c[:start], text[:start])
		if cursorIdx < len(text) {
			copy(c[start+len(nickComp):], text[cursorIdx:])
		}
		copy(c[start:], nickComp)
		cs = append(cs, Completion{
			StartIdx:  start,
			EndIdx:    cursorIdx,
			Text:      c,
			Display:   []rune(name),
			CursorIdx: start + len(nickComp),
		})
	}
	return cs
}

func (app *App) completionsChannelTopic(v *view, cs []Completion, cursorIdx int, text []rune) []Completion {
	if !hasPrefix(text, []rune("/topic ")) {
		return cs
	}
	if v.buffer.Channel == nil || v.buffer.Channel.Topic == "" {
		return cs
	}
	if cursorIdx == len(text) {
		compText := append(text[:len(text):len(text)], []rune(v.buffer.Channel.Topic)...)
		cs = append(cs, Completion{
			StartIdx:  cursorIdx,
			EndIdx:    cursorIdx,
			Text:      compText,
			CursorIdx: len(compText),
		})
	}
	return cs
}

// queryUsers returns the names of the members of every channel of conn.
func (app *App) queryUsers(conn *irc.Connection) []string {
	seen := map[string]struct{}{}
	var users []string
	for b := range app.views {
		if b.Connection != conn || b.Channel == nil {
			continue
		}
		for _, name := range b.Channel.Names() {
			cf := conn.Casemap(name)
			if _, ok := seen[cf]; ok {
				continue
			}
			seen[cf] = struct{}{}
			users = append(users, name)
		}
	}
	sort.Strings(users)
	return users
}

func (app *App) completionsMsg(v *view, cs []Completion, cursorIdx int, text []rune) []Completion {
	if !hasPrefix(text, []rune("/msg ")) {
		return cs
	}
	conn := v.buffer.Connection
	// Check if the first word (target) is already written and complete (in
	// which case we don't have completions to provide).
	var word string
	hasMetALetter := false
	for i := 5; i < cursorIdx; i += 1 {
		if hasMetALetter && text[i] == ' ' {
			return cs
		}
		if !hasMetALetter && text[i] != ' ' {
			word = conn.Casemap(string(text[i:cursorIdx]))
			hasMetALetter = true
		}
	}
	if word == "" {
		return cs
	}
	for _, user := range app.queryUsers(conn) {
		if strings.HasPrefix(conn.Casemap(user), word) {
			nickComp := append([]rune(user), ' ')
			c := make([]rune, len(text)+5+len(nickComp)-cursorIdx)
			copy(c[:5], []rune("/msg "))
			copy(c[5:], nickComp)
			if cursorIdx < len(text) {
				copy(c[5+len(nickComp):], text[cursorIdx:])
			}
			cs = append(cs, Completion{
				StartIdx:  5,
				EndIdx:    cursorIdx,
				Text:      c,
				CursorIdx: 5 + len(nickComp),
			})
		}
	}
	return cs
}

func (app *App) completions(v *view, cursorIdx int, text []rune) []Completion {
	if cursorIdx < 0 || cursorIdx > len(text) {
		return nil
	}
	var cs []Completion
	if hasPrefix(text, []rune("/msg ")) {
		return app.completionsMsg(v, cs, cursorIdx, text)
	}
	cs = app.completionsChannelTopic(v, cs, cursorIdx, text)
	if len(cs) > 0 {
		return cs
	}
	return app.completionsChannelMembers(v, cs, cursorIdx, text)
}

// Completions returns the completions of the input text of b, with the
// cursor at rune index cursorIdx.
func (app *App) Completions(b *irc.Buffer, cursorIdx int, text string) []Completion {
	var cs []Completion
	app.Call(func() {
		if v := app.views[b]; v != nil {
			cs = app.completions(v, cursorIdx, []rune(text))
		}
	})
	return cs
}

// Complete returns the nicknames of b starting with prefix.
func (app *App) Complete(b *irc.Buffer, prefix string) []string {
	var names []string
	app.Call(func() {
		if v := app.views[b]; v != nil {
			names = v.formatter.Names().Complete(prefix, b.Connection.Casemap)
		}
	})
	return names
}

func hasPrefix(s, prefix []rune) bool {
	return len(prefix) <= len(s) && equal(prefix, s[:len(prefix)])
}

func equal(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
