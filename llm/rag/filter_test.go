package rag

import (
	"testing"

	"jlpt-tutor/llm"
)

func TestResolveFilter(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		lessonSel    Selection
		sublessonSel Selection
		want         *llm.SearchFilter
	}{
		{
			name:  "no mentions, no selections",
			query: "how does the te-form work?",
			want:  nil,
		},
		{
			name:  "lesson and sublesson from text",
			query: "explain lesson 5 sublesson 2 please",
			want:  &llm.SearchFilter{Lesson: 5, Sublesson: 2},
		},
		{
			name:  "lesson only from text",
			query: "what is covered in Lesson 7?",
			want:  &llm.SearchFilter{Lesson: 7},
		},
		{
			name:  "sublesson mention alone is discarded",
			query: "sublesson 3 grammar point",
			want:  nil,
		},
		{
			name:  "case insensitive, first match wins",
			query: "LESSON 4 and lesson 9 both",
			want:  &llm.SearchFilter{Lesson: 4},
		},
		{
			name:      "sidebar lesson overrides parsed lesson",
			query:     "tell me about lesson 2",
			lessonSel: Explicit(7),
			want:      &llm.SearchFilter{Lesson: 7},
		},
		{
			name:         "sidebar sublesson overrides parsed sublesson",
			query:        "lesson 3 sublesson 1",
			sublessonSel: Explicit(4),
			want:         &llm.SearchFilter{Lesson: 3, Sublesson: 4},
		},
		{
			name:         "sidebar sublesson without any lesson is discarded",
			query:        "particles confuse me",
			sublessonSel: Explicit(2),
			want:         nil,
		},
		{
			name:         "sidebar lesson enables sidebar sublesson",
			query:        "particles confuse me",
			lessonSel:    Explicit(6),
			sublessonSel: Explicit(2),
			want:         &llm.SearchFilter{Lesson: 6, Sublesson: 2},
		},
		{
			name:  "lesson inside sublesson word does not match lesson pattern",
			query: "see sublesson 8",
			want:  nil,
		},
		{
			name:  "no digits after keyword",
			query: "which lesson covers counters?",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFilter(tt.query, tt.lessonSel, tt.sublessonSel)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil filter, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %+v, got nil", tt.want)
			}
			if got.Lesson != tt.want.Lesson || got.Sublesson != tt.want.Sublesson {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	if _, ok := Auto().Get(); ok {
		t.Error("Auto selection should not report an explicit value")
	}
	n, ok := Explicit(5).Get()
	if !ok || n != 5 {
		t.Errorf("Explicit(5).Get() = (%d, %v), want (5, true)", n, ok)
	}
}
