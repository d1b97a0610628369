// Package rag implements the retrieval side of the tutor: resolving metadata
// filters from free text and sidebar state, loading the corpus into the
// vector index, running filtered similarity searches and formatting citations.
package rag

import (
	"regexp"
	"strconv"

	"jlpt-tutor/llm"
)

// Selection is a sidebar selector state: either Auto (no selection) or an
// explicit value. It replaces sentinel-string checks so that "no selection"
// and a concrete value cannot be confused.
type Selection struct {
	value    int
	explicit bool
}

// Auto returns the unset selection.
func Auto() Selection {
	return Selection{}
}

// Explicit returns a selection carrying a concrete value.
func Explicit(n int) Selection {
	return Selection{value: n, explicit: true}
}

// Get returns the selected value and whether one was explicitly set.
func (s Selection) Get() (int, bool) {
	return s.value, s.explicit
}

var (
	lessonRe    = regexp.MustCompile(`(?i)\blesson\s+(\d+)\b`)
	sublessonRe = regexp.MustCompile(`(?i)\bsublesson\s+(\d+)\b`)
)

// parseLessonInfo extracts "lesson N" / "sublesson N" mentions from free
// text. First match wins. A \b precedes "lesson", so the "lesson" inside
// "sublesson" never matches the lesson pattern.
func parseLessonInfo(text string) (lesson, sublesson int, hasLesson, hasSublesson bool) {
	if m := lessonRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			lesson, hasLesson = n, true
		}
	}
	if m := sublessonRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			sublesson, hasSublesson = n, true
		}
	}
	return
}

// ResolveFilter combines lesson/sublesson mentions parsed from the query text
// with the sidebar selections into a single search filter. An explicit
// sidebar selection always overrides the parsed value. A sublesson constraint
// is discarded unless a lesson was resolved from some source; with no lesson
// at all the result is nil (no constraint). Absence of any match is a valid
// outcome, not an error.
func ResolveFilter(queryText string, lessonSel, sublessonSel Selection) *llm.SearchFilter {
	lesson, sublesson, hasLesson, hasSublesson := parseLessonInfo(queryText)

	if n, ok := lessonSel.Get(); ok {
		lesson, hasLesson = n, true
	}
	if n, ok := sublessonSel.Get(); ok {
		sublesson, hasSublesson = n, true
	}

	if !hasLesson {
		return nil
	}

	f := &llm.SearchFilter{Lesson: lesson}
	if hasSublesson {
		f.Sublesson = sublesson
	}
	return f
}
