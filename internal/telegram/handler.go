package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
)

const (
	telegramMessageLimit = 4096
	historyListLimit     = domain.DefaultHistoryLimit

	msgGenericError = "出错了，请稍后再试。"
	msgNotLinked    = "当前 Telegram 账号尚未关联学习平台账号，搜索历史不可用。"
	msgRateLimited  = "请求过于频繁，请一分钟后再试。"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		if isSearchCommand(msg.Command()) {
			h.handleSearch(ctx, msg)
			return
		}
		h.handleCommand(ctx, msg)
	} else {
		h.handleSearch(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "history":
		h.handleHistory(ctx, msg)
	case "forget":
		h.handleForget(ctx, msg)
	case "clear":
		h.handleClear(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "未知命令，使用 /help 查看帮助。")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.ByTelegramID(ctx, msg.From.ID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, msgGenericError)
		return
	}

	var response string
	if user != nil {
		response = fmt.Sprintf("欢迎回来，%s！直接发送关键词即可搜索课程、工具、笔记和用户。\n\n使用 /help 查看全部命令。", escape(user.Name))
	} else {
		response = "欢迎使用学习笔记搜索！直接发送关键词即可搜索课程和工具。\n\n关联平台账号后还可以搜索笔记、用户并保存搜索历史。使用 /help 查看全部命令。"
	}

	h.bot.Send(msg.Chat.ID, response)
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>可用命令：</b>

/search 关键词 - 搜索全部内容
/course 关键词 - 只搜索课程
/tool 关键词 - 只搜索工具
/note 关键词 - 只搜索笔记
/user 关键词 - 只搜索用户
/history - 最近的搜索记录
/forget N - 删除第 N 条搜索记录
/clear - 清空搜索记录

<b>使用方法：</b>
直接发送关键词（至少2个字符）也会搜索全部内容。

<b>示例：</b>
• Python
• /course 机器学习
• /tool 代码编辑器`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleSearch(ctx context.Context, msg *tgbotapi.Message) {
	key := "tg:" + strconv.FormatInt(msg.From.ID, 10)
	if !h.bot.rateLimiter.Allow(key) {
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("telegram_id", msg.From.ID),
			zap.Time("reset_at", h.bot.rateLimiter.ResetTime(key)),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(msg.Chat.ID, msgRateLimited)
		return
	}

	query, searchType := ParseSearchCommand(msg.Text)

	// без привязки ищем как аноним
	viewer, err := h.bot.userService.ByTelegramID(ctx, msg.From.ID)
	if err != nil {
		viewer = nil
	}

	h.bot.SendTyping(msg.Chat.ID)

	resp, err := h.bot.searchService.Search(ctx, domain.SearchParams{
		Query: query,
		Type:  string(searchType),
	}, viewer)
	if err != nil {
		h.bot.logger.Error("search failed",
			zap.Error(err),
			zap.Int64("telegram_id", msg.From.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	if viewer != nil && resp.Message == "" {
		if _, err := h.bot.historyService.Record(ctx, viewer.ID, query); err != nil {
			h.bot.logger.Warn("failed to record history", zap.Error(err), zap.Int64("user_id", viewer.ID))
		}
	}

	for _, m := range SplitMessage(FormatSearchResponse(resp, h.bot.baseURL), telegramMessageLimit) {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	user, ok := h.linkedUser(ctx, msg)
	if !ok {
		return
	}

	entries, err := h.bot.historyService.List(ctx, user.ID, historyListLimit)
	if err != nil {
		h.bot.logger.Error("failed to list history", zap.Error(err))
		h.bot.Send(msg.Chat.ID, msgGenericError)
		return
	}

	if len(entries) == 0 {
		h.bot.Send(msg.Chat.ID, "暂无搜索记录。")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatHistory(entries))
}

func (h *Handler) handleForget(ctx context.Context, msg *tgbotapi.Message) {
	user, ok := h.linkedUser(ctx, msg)
	if !ok {
		return
	}

	numStr := strings.TrimSpace(msg.CommandArguments())
	if numStr == "" {
		h.bot.Send(msg.Chat.ID, "请指定记录编号：/forget 1")
		return
	}

	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 {
		h.bot.Send(msg.Chat.ID, "请输入正确的记录编号。")
		return
	}

	entries, err := h.bot.historyService.List(ctx, user.ID, historyListLimit)
	if err != nil {
		h.bot.Send(msg.Chat.ID, msgGenericError)
		return
	}

	if num > len(entries) {
		h.bot.Send(msg.Chat.ID, fmt.Sprintf("记录 %d 不存在。", num))
		return
	}

	if err := h.bot.historyService.Delete(ctx, user.ID, entries[num-1].ID); err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, "已删除该搜索记录。")
}

func (h *Handler) handleClear(ctx context.Context, msg *tgbotapi.Message) {
	user, ok := h.linkedUser(ctx, msg)
	if !ok {
		return
	}

	n, err := h.bot.historyService.ClearAll(ctx, user.ID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, msgGenericError)
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("已清空 %d 条搜索记录。", n))
}

// linkedUser отвечает сам, если аккаунт не привязан
func (h *Handler) linkedUser(ctx context.Context, msg *tgbotapi.Message) (*domain.User, bool) {
	user, err := h.bot.userService.ByTelegramID(ctx, msg.From.ID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, msgGenericError)
		return nil, false
	}
	if user == nil {
		h.bot.Send(msg.Chat.ID, msgNotLinked)
		return nil, false
	}
	return user, true
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "搜索关键词不能为空。"
	case errors.Is(err, domain.ErrQueryTooShort):
		return "搜索关键词至少需要2个字符。"
	case errors.Is(err, domain.ErrHistoryNotFound):
		return "搜索记录不存在。"
	case errors.Is(err, domain.ErrAllSourcesFailed):
		return "搜索服务暂时不可用，请稍后再试。"
	default:
		return msgGenericError
	}
}
