package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/delthas/go-localeinfo"
	"github.com/rivo/uniseg"
)

// WordBoundaries returns the byte offsets of the Unicode word boundaries of
// s (UAX #29), 0 and len(s) included.
func WordBoundaries(s string) []int {
	bounds := []int{0}
	rest := s
	state := -1
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		bounds = append(bounds, len(s)-len(rest))
		if word == "" {
			break
		}
	}
	return bounds
}

// Boundaries is a lookup set over WordBoundaries.
type Boundaries map[int]struct{}

func NewBoundaries(s string) Boundaries {
	bounds := WordBoundaries(s)
	b := make(Boundaries, len(bounds))
	for _, i := range bounds {
		b[i] = struct{}{}
	}
	return b
}

func (b Boundaries) At(i int) bool {
	_, ok := b[i]
	return ok
}

var dateConfig sync.Once
var dateMonthFirst bool

func loadDateInfo() {
	// Try to extract from the user locale whether they'd rather have the date
	// printed as dd/mm or mm/dd.
	// If we're not sure, print dd/mm.
	l, err := localeinfo.NewLocale("")
	if err != nil {
		return
	}
	dateMonthFirst = monthFirst(l.DateFormat())
}

func monthFirst(format string) bool {
	dayIndex := -1
	for _, s := range []string{"%d", "%e"} {
		dayIndex = strings.Index(format, s)
		if dayIndex >= 0 {
			break
		}
	}
	if dayIndex == -1 {
		return false
	}
	monthIndex := -1
	for _, s := range []string{"%m", "%b", "%B"} {
		monthIndex = strings.Index(format, s)
		if monthIndex >= 0 {
			break
		}
	}
	if monthIndex == -1 {
		return false
	}
	return monthIndex < dayIndex
}

// FormatDateTime formats t with the day/month order of the user locale.
func FormatDateTime(t time.Time) string {
	dateConfig.Do(loadDateInfo)
	_, m, d := t.Date()
	left, right := d, int(m)
	if dateMonthFirst {
		left, right = int(m), d
	}
	return fmt.Sprintf("%02d/%02d/%04d %02d:%02d:%02d", left, right, t.Year(), t.Hour(), t.Minute(), t.Second())
}
