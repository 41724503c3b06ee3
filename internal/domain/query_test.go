package domain

import (
	"errors"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name      string
		params    SearchParams
		wantErr   error
		wantText  string
		wantType  SearchType
		wantPage  int
		wantLimit int
	}{
		{"ok", SearchParams{Query: "  Python  ", Type: "course", Page: "2", Limit: "5"}, nil, "Python", SearchType(SourceCourse), 2, 5},
		{"defaults", SearchParams{Query: "go lang"}, nil, "go lang", SearchAll, 1, 10},
		{"empty", SearchParams{Query: ""}, ErrQueryTooShort, "", SearchAll, 1, 10},
		{"one char", SearchParams{Query: " a "}, ErrQueryTooShort, "a", SearchAll, 1, 10},
		{"one cjk char", SearchParams{Query: "学"}, ErrQueryTooShort, "学", SearchAll, 1, 10},
		{"two cjk chars", SearchParams{Query: "学习"}, nil, "学习", SearchAll, 1, 10},
		{"page below one", SearchParams{Query: "java", Page: "-3"}, nil, "java", SearchAll, 1, 10},
		{"page garbage", SearchParams{Query: "java", Page: "abc"}, nil, "java", SearchAll, 1, 10},
		{"limit zero", SearchParams{Query: "java", Limit: "0"}, nil, "java", SearchAll, 1, 1},
		{"limit too big", SearchParams{Query: "java", Limit: "1000"}, nil, "java", SearchAll, 1, 100},
		{"unknown type", SearchParams{Query: "java", Type: "video"}, nil, "java", SearchAll, 1, 10},
		{"type case", SearchParams{Query: "java", Type: "NOTE"}, nil, "java", SearchType(SourceNote), 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NormalizeQuery(tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if q.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", q.Text, tt.wantText)
			}
			if q.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", q.Type, tt.wantType)
			}
			if q.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", q.Page, tt.wantPage)
			}
			if q.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.wantLimit)
			}
		})
	}
}

func TestNormalizeQuery_Folded(t *testing.T) {
	q, err := NormalizeQuery(SearchParams{Query: " React Hooks "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Folded != "react hooks" {
		t.Errorf("Folded = %q, want %q", q.Folded, "react hooks")
	}
	if q.Category != "" {
		t.Errorf("Category = %q, want empty", q.Category)
	}
}

func TestSearchType_Includes(t *testing.T) {
	if !SearchAll.Includes(SourceUser) {
		t.Error("all must include user")
	}
	if !SearchType(SourceCourse).Includes(SourceCourse) {
		t.Error("course must include course")
	}
	if SearchType(SourceCourse).Includes(SourceTool) {
		t.Error("course must not include tool")
	}
}

func TestSourceType_Rank(t *testing.T) {
	if !(SourceCourse.Rank() < SourceTool.Rank() && SourceTool.Rank() < SourceNote.Rank() && SourceNote.Rank() < SourceUser.Rank()) {
		t.Error("unexpected source order")
	}
	if SourceType("other").Rank() != len(SourceOrder) {
		t.Error("unknown source must sort last")
	}
}

func TestParseStrictInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 10, false},
		{"5", 5, false},
		{"20", 20, false},
		{"0", 0, true},
		{"21", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStrictInt(tt.raw, 10, 1, 20)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrictInt(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseStrictInt(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
