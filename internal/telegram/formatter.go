package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const descriptionPreview = 80

func FormatSearchResponse(resp *domain.SearchResponse, baseURL string) string {
	if resp.Message != "" {
		return escape(resp.Message)
	}

	var sb strings.Builder
	p := resp.Pagination
	sb.WriteString(fmt.Sprintf("<b>“%s”</b> 共 %d 条结果", escape(resp.Query), p.Total))
	if p.TotalPages > 1 {
		sb.WriteString(fmt.Sprintf("（第 %d/%d 页）", p.Page, p.TotalPages))
	}
	sb.WriteString("\n\n")

	if len(resp.Results) == 0 {
		sb.WriteString("没有找到相关内容。")
	}

	for i, r := range resp.Results {
		sb.WriteString(fmt.Sprintf("%d. %s <b>%s</b>", i+1, getSourceIcon(r.Source), escape(r.Title)))
		if r.Category != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", escape(r.Category)))
		}
		sb.WriteString("\n")

		if r.Description != "" {
			sb.WriteString("   " + escape(truncate(r.Description, descriptionPreview)) + "\n")
		}
		if link := resultLink(r, baseURL); link != "" {
			escaped := escape(link)
			sb.WriteString(fmt.Sprintf("   <a href=\"%s\">%s</a>\n", escaped, escape(truncate(link, 50))))
		}
	}

	if len(resp.Suggestions) > 0 {
		sb.WriteString("\n━━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString("<b>相关搜索：</b> ")
		quoted := make([]string, 0, len(resp.Suggestions))
		for _, s := range resp.Suggestions {
			quoted = append(quoted, escape(s))
		}
		sb.WriteString(strings.Join(quoted, " · "))
	}

	return sb.String()
}

func FormatHistory(entries []domain.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString("<b>最近的搜索：</b>\n\n")

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s  <i>%s</i>\n",
			i+1,
			escape(e.Query),
			e.CreatedAt.Format("01-02 15:04"),
		))
	}

	sb.WriteString(fmt.Sprintf("\n共 %d 条，使用 /forget N 删除单条记录", len(entries)))
	return sb.String()
}

// resultLink - у инструментов внешний URL, у остального путь на платформе
func resultLink(r domain.SearchResult, baseURL string) string {
	if r.URL != "" {
		return r.URL
	}
	if r.Path == "" || baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + r.Path
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}
		// не режем многобайтовый символ пополам
		for splitPoint > 1 && splitPoint < len(text) && !utf8.RuneStart(text[splitPoint]) {
			splitPoint--
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func getSourceIcon(src domain.SourceType) string {
	switch src {
	case domain.SourceCourse:
		return "📘"
	case domain.SourceTool:
		return "🛠"
	case domain.SourceNote:
		return "📝"
	case domain.SourceUser:
		return "👤"
	default:
		return "•"
	}
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes-3]) + "..."
}

func escape(s string) string {
	return html.EscapeString(s)
}
