package domain

import "strings"

type Course struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Level       string `yaml:"level"`
	Path        string `yaml:"path"`
}

type Tool struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	URL         string `yaml:"url"`
}

func (c Course) Validate() error {
	if c.ID <= 0 || strings.TrimSpace(c.Title) == "" {
		return ErrInvalidCatalog
	}
	return nil
}

func (t Tool) Validate() error {
	if t.ID <= 0 || strings.TrimSpace(t.Name) == "" {
		return ErrInvalidCatalog
	}
	return nil
}
