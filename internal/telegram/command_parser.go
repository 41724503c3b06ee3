package telegram

import (
	"strings"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

// /course, /tool, /note, /user -> поиск только по этому источнику
// /search и обычный текст -> по всем
func ParseSearchCommand(text string) (query string, searchType domain.SearchType) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", domain.SearchAll
	}

	if !strings.HasPrefix(text, "/") {
		return normalizeSpaces(text), domain.SearchAll
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	// /search@studynotes_bot в группах
	command, _, _ = strings.Cut(command, "@")

	var rest string
	if len(parts) > 1 {
		rest = normalizeSpaces(parts[1])
	}

	switch command {
	case "/search":
		return rest, domain.SearchAll
	case "/course", "/tool", "/note", "/user":
		return rest, domain.ParseSearchType(strings.TrimPrefix(command, "/"))
	default:
		return text, domain.SearchAll
	}
}

func isSearchCommand(cmd string) bool {
	switch cmd {
	case "search", "course", "tool", "note", "user":
		return true
	}
	return false
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
