package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.NotEmpty(t, c.Courses())
	assert.NotEmpty(t, c.Tools())

	for _, course := range c.Courses() {
		assert.NoError(t, course.Validate())
	}
	for _, tool := range c.Tools() {
		assert.NoError(t, tool.Validate())
	}
}

func TestStatic_ReturnsCopies(t *testing.T) {
	c := Default()
	courses := c.Courses()
	courses[0].Title = "changed"

	assert.NotEqual(t, "changed", c.Courses()[0].Title)
}

func TestParse(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		data := []byte(`
courses:
  - id: 1
    title: Rust入门
    description: 所有权与借用
    category: 编程语言
    path: /courses/rust
tools:
  - id: 7
    name: Cargo
    description: Rust包管理器
    category: 构建工具
    url: https://doc.rust-lang.org/cargo
`)
		c, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, c.Courses(), 1)
		require.Len(t, c.Tools(), 1)
		assert.Equal(t, "Rust入门", c.Courses()[0].Title)
		assert.Equal(t, "/courses/rust", c.Courses()[0].Path)
		assert.Equal(t, 7, c.Tools()[0].ID)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := Parse([]byte("courses:\n  - id: 1\n"))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("duplicate tool id", func(t *testing.T) {
		_, err := Parse([]byte("tools:\n  - id: 1\n    name: a\n  - id: 1\n    name: b\n"))
		assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Parse([]byte("courses: ["))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses builtin", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, len(defaultCourses), len(c.Courses()))
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tools:\n  - id: 1\n    name: Vim\n"), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, c.Courses())
		assert.Equal(t, "Vim", c.Tools()[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
