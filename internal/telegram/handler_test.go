package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/service"
)

func createTestMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{
			ID:       chatID,
			UserName: "testuser",
		},
		Chat: &tgbotapi.Chat{
			ID: chatID,
		},
		Text: text,
	}
}

func createCommandMessage(chatID int64, text string) *tgbotapi.Message {
	msg := createTestMessage(chatID, text)
	cmdLen := strings.IndexByte(text, ' ')
	if cmdLen < 0 {
		cmdLen = len(text)
	}
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return msg
}

func TestMapErrorToMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty", domain.ErrEmptyQuery, "搜索关键词不能为空。"},
		{"too short", domain.ErrQueryTooShort, "搜索关键词至少需要2个字符。"},
		{"history not found", domain.ErrHistoryNotFound, "搜索记录不存在。"},
		{"all sources failed", domain.ErrAllSourcesFailed, "搜索服务暂时不可用，请稍后再试。"},
		{"unknown", errors.New("some random error"), msgGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToMessage(tt.err)
			if got != tt.want {
				t.Errorf("mapErrorToMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorToMessage_WrappedErrors(t *testing.T) {
	wrappedErr := fmt.Errorf("delete: %w", domain.ErrHistoryNotFound)
	if got := mapErrorToMessage(wrappedErr); got != "搜索记录不存在。" {
		t.Errorf("mapErrorToMessage(wrapped) = %v", got)
	}
}

func TestHandler_PlainTextSearch(t *testing.T) {
	f := newBotFixture(t, BotConfig{})

	f.handler.HandleMessage(context.Background(), createTestMessage(unlinkedChat, "Python"))

	got := f.sender.Last(unlinkedChat)
	if !strings.Contains(got, "Python编程入门") {
		t.Errorf("search reply should contain top course, got %q", got)
	}
	if strings.Contains(got, "Python装饰器") {
		t.Error("unlinked chat must not see private notes")
	}
	if f.history.Count() != 0 {
		t.Errorf("history entries = %d, want 0 for unlinked chat", f.history.Count())
	}
	if f.sender.typing != 1 {
		t.Errorf("typing actions = %d, want 1", f.sender.typing)
	}
}

func TestHandler_LinkedSearchRecordsHistory(t *testing.T) {
	f := newBotFixture(t, BotConfig{})
	ctx := context.Background()

	f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, "/search python"))

	got := f.sender.Last(linkedChat)
	if !strings.Contains(got, "Python装饰器") {
		t.Errorf("linked user should see own note, got %q", got)
	}
	if f.history.Count() != 1 {
		t.Fatalf("history entries = %d, want 1", f.history.Count())
	}

	f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, "/history"))
	if got := f.sender.Last(linkedChat); !strings.Contains(got, "1. python") {
		t.Errorf("/history reply = %q", got)
	}
}

func TestHandler_TypedSearch(t *testing.T) {
	f := newBotFixture(t, BotConfig{})

	f.handler.HandleMessage(context.Background(), createCommandMessage(unlinkedChat, "/tool python"))

	got := f.sender.Last(unlinkedChat)
	if !strings.Contains(got, "🛠") {
		t.Errorf("tool search should list tools, got %q", got)
	}
	if strings.Contains(got, "📘") {
		t.Errorf("tool search should not list courses, got %q", got)
	}
}

func TestHandler_TooShortQuery(t *testing.T) {
	f := newBotFixture(t, BotConfig{})

	f.handler.HandleMessage(context.Background(), createTestMessage(linkedChat, "a"))

	if got := f.sender.Last(linkedChat); got != service.QueryTooShortMessage {
		t.Errorf("reply = %q, want too short message", got)
	}
	if f.history.Count() != 0 {
		t.Error("too short queries must not be recorded")
	}
}

func TestHandler_RateLimit(t *testing.T) {
	f := newBotFixture(t, BotConfig{RequestsPerMinute: 1})
	ctx := context.Background()

	f.handler.HandleMessage(ctx, createTestMessage(unlinkedChat, "python"))
	f.handler.HandleMessage(ctx, createTestMessage(unlinkedChat, "python"))

	if got := f.sender.Last(unlinkedChat); got != msgRateLimited {
		t.Errorf("reply = %q, want rate limit message", got)
	}
	if got := testutil.ToFloat64(f.metrics.RateLimitHitsTotal.WithLabelValues("telegram")); got != 1 {
		t.Errorf("rate limit hits = %v, want 1", got)
	}
}

type failingSearch struct{ err error }

func (s failingSearch) Search(ctx context.Context, params domain.SearchParams, viewer *domain.User) (*domain.SearchResponse, error) {
	return nil, s.err
}

func TestHandler_SearchFailure(t *testing.T) {
	f := newBotFixture(t, BotConfig{})
	f.bot.searchService = failingSearch{err: domain.ErrAllSourcesFailed}

	f.handler.HandleMessage(context.Background(), createTestMessage(linkedChat, "python"))

	if got := f.sender.Last(linkedChat); got != "搜索服务暂时不可用，请稍后再试。" {
		t.Errorf("reply = %q", got)
	}
	if f.history.Count() != 0 {
		t.Error("failed searches must not be recorded")
	}
}

func TestHandler_HistoryRequiresLink(t *testing.T) {
	f := newBotFixture(t, BotConfig{})

	for _, cmd := range []string{"/history", "/clear", "/forget 1"} {
		f.handler.HandleMessage(context.Background(), createCommandMessage(unlinkedChat, cmd))
		if got := f.sender.Last(unlinkedChat); got != msgNotLinked {
			t.Errorf("%s reply = %q, want not linked message", cmd, got)
		}
	}
}

func TestHandler_ForgetAndClear(t *testing.T) {
	f := newBotFixture(t, BotConfig{})
	ctx := context.Background()

	for _, q := range []string{"golang", "rust", "docker"} {
		if _, err := f.bot.historyService.Record(ctx, 1, q); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		cmd  string
		want string
	}{
		{cmd: "/forget", want: "请指定记录编号：/forget 1"},
		{cmd: "/forget abc", want: "请输入正确的记录编号。"},
		{cmd: "/forget 9", want: "记录 9 不存在。"},
		{cmd: "/forget 1", want: "已删除该搜索记录。"},
	}
	for _, tt := range tests {
		f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, tt.cmd))
		if got := f.sender.Last(linkedChat); got != tt.want {
			t.Errorf("%s reply = %q, want %q", tt.cmd, got, tt.want)
		}
	}

	// удалили самую свежую запись
	entries, err := f.bot.historyService.List(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Query != "rust" {
		t.Errorf("entries after /forget 1 = %+v", entries)
	}

	f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, "/clear"))
	if got := f.sender.Last(linkedChat); got != "已清空 2 条搜索记录。" {
		t.Errorf("/clear reply = %q", got)
	}

	f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, "/history"))
	if got := f.sender.Last(linkedChat); got != "暂无搜索记录。" {
		t.Errorf("/history after clear = %q", got)
	}
}

func TestHandler_Start(t *testing.T) {
	f := newBotFixture(t, BotConfig{})
	ctx := context.Background()

	f.handler.HandleMessage(ctx, createCommandMessage(linkedChat, "/start"))
	if got := f.sender.Last(linkedChat); !strings.Contains(got, "alice") {
		t.Errorf("linked /start = %q, want greeting by name", got)
	}

	f.handler.HandleMessage(ctx, createCommandMessage(unlinkedChat, "/start"))
	if got := f.sender.Last(unlinkedChat); !strings.Contains(got, "关联平台账号") {
		t.Errorf("unlinked /start = %q", got)
	}
}

func TestHandler_UnknownCommand(t *testing.T) {
	f := newBotFixture(t, BotConfig{})

	f.handler.HandleMessage(context.Background(), createCommandMessage(unlinkedChat, "/quick python"))

	if got := f.sender.Last(unlinkedChat); !strings.Contains(got, "/help") {
		t.Errorf("unknown command reply = %q", got)
	}
}
