// Package catalog provides the read-only course and tool catalogs searched
// by the static sources. Catalogs are loaded once at startup, either from the
// built-in lists or from a YAML file.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

type Provider interface {
	Courses() []domain.Course
	Tools() []domain.Tool
}

type Static struct {
	courses []domain.Course
	tools   []domain.Tool
}

type file struct {
	Courses []domain.Course `yaml:"courses"`
	Tools   []domain.Tool   `yaml:"tools"`
}

func NewStatic(courses []domain.Course, tools []domain.Tool) *Static {
	return &Static{
		courses: append([]domain.Course(nil), courses...),
		tools:   append([]domain.Tool(nil), tools...),
	}
}

func Default() *Static {
	return NewStatic(defaultCourses, defaultTools)
}

// Load - пустой path -> встроенный каталог
func Load(path string) (*Static, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Static, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[int]bool, len(f.Courses))
	for _, c := range f.Courses {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("course %d: %w", c.ID, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate course id %d: %w", c.ID, domain.ErrInvalidCatalog)
		}
		seen[c.ID] = true
	}

	seen = make(map[int]bool, len(f.Tools))
	for _, t := range f.Tools {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("tool %d: %w", t.ID, err)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate tool id %d: %w", t.ID, domain.ErrInvalidCatalog)
		}
		seen[t.ID] = true
	}

	return NewStatic(f.Courses, f.Tools), nil
}

// Courses returns a copy; callers may not mutate the catalog.
func (s *Static) Courses() []domain.Course {
	return append([]domain.Course(nil), s.courses...)
}

func (s *Static) Tools() []domain.Tool {
	return append([]domain.Tool(nil), s.tools...)
}
