package ircview

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.sr.ht/~delthas/ircview/ui"
)

// NameIndex groups the nicknames of a channel by their first rune. Names of
// a group are sorted longest first, so that "alice_" wins over "alice".
type NameIndex map[rune][]string

func NewNameIndex(names []string) NameIndex {
	idx := make(NameIndex)
	for _, name := range names {
		if name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(name)
		idx[r] = append(idx[r], name)
	}
	for _, group := range idx {
		sort.SliceStable(group, func(i, j int) bool {
			return len(group[i]) > len(group[j])
		})
	}
	return idx
}

// Len returns the number of indexed names.
func (idx NameIndex) Len() int {
	n := 0
	for _, group := range idx {
		n += len(group)
	}
	return n
}

// Linkify replaces the whole-word occurrences of indexed names in the HTML
// fragment msg with link(name). Tags, entities and the content of <a>
// elements are left untouched.
func (idx NameIndex) Linkify(msg string, link func(name string) string) string {
	if len(idx) == 0 {
		return msg
	}
	bounds := ui.NewBoundaries(msg)

	var sb strings.Builder
	last := 0
	pos := 0
	for pos < len(msg) {
		c, size := utf8.DecodeRuneInString(msg[pos:])
		switch {
		case unicode.IsSpace(c):
		case strings.HasPrefix(msg[pos:], "<a "):
			// do not format nicks within links
			if end := strings.Index(msg[pos+3:], "</a>"); end >= 0 {
				pos += 3 + end + len("</a>")
				continue
			}
		case c == '<':
			if end := strings.IndexByte(msg[pos:], '>'); end >= 0 {
				pos += end + 1
				continue
			}
		case c == '&':
			if end := strings.IndexByte(msg[pos:], ';'); end >= 0 {
				pos += end + 1
				continue
			}
		default:
			if !bounds.At(pos) {
				break
			}
			if name, ok := idx.match(msg, pos, bounds); ok {
				sb.WriteString(msg[last:pos])
				sb.WriteString(link(name))
				pos += len(name)
				last = pos
				continue
			}
		}
		pos += size
	}
	if last == 0 {
		return msg
	}
	sb.WriteString(msg[last:])
	return sb.String()
}

func (idx NameIndex) match(msg string, pos int, bounds ui.Boundaries) (string, bool) {
	c, _ := utf8.DecodeRuneInString(msg[pos:])
	for _, name := range idx[c] {
		if strings.HasPrefix(msg[pos:], name) && bounds.At(pos+len(name)) {
			return name, true
		}
	}
	return "", false
}

// Complete returns the indexed names starting with prefix, compared with
// casemap, sorted alphabetically.
func (idx NameIndex) Complete(prefix string, casemap func(string) string) []string {
	if casemap == nil {
		casemap = strings.ToLower
	}
	prefixCf := casemap(prefix)
	var names []string
	for _, group := range idx {
		for _, name := range group {
			if strings.HasPrefix(casemap(name), prefixCf) {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
