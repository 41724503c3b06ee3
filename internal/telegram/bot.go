package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/ratelimit"
	"github.com/kitbuilder587/studynotes/internal/service"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
	// BaseURL - префикс для ссылок на курсы, заметки и профили
	BaseURL string
}

// Sender - то, что бот умеет отправлять; в тестах подменяется
type Sender interface {
	Send(chatID int64, text string) error
	SendTyping(chatID int64)
}

type Bot struct {
	api            *tgbotapi.BotAPI
	sender         Sender
	userService    service.UserService
	searchService  service.SearchService
	historyService service.HistoryService
	logger         *zap.Logger
	metrics        *metrics.Metrics
	handler        *Handler
	rateLimiter    *ratelimit.Limiter
	baseURL        string
	wg             sync.WaitGroup
}

type Services struct {
	Users   service.UserService
	Search  service.SearchService
	History service.HistoryService
}

func New(cfg BotConfig, svc Services, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	bot := newBot(cfg, svc, apiSender{api: api}, logger, m)
	bot.api = api

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func newBot(cfg BotConfig, svc Services, sender Sender, logger *zap.Logger, m *metrics.Metrics) *Bot {
	bot := &Bot{
		sender:         sender,
		userService:    svc.Users,
		searchService:  svc.Search,
		historyService: svc.History,
		logger:         logger,
		metrics:        m,
		rateLimiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RequestsPerMinute,
		}),
		baseURL: cfg.BaseURL,
	}
	bot.handler = NewHandler(bot)
	return bot
}

func (b *Bot) Run(ctx context.Context) error {
	defer b.rateLimiter.Stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest("telegram", "panic", time.Since(startTime))
			}
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)

	if b.metrics != nil {
		b.metrics.RecordRequest("telegram", "processed", time.Since(startTime))
	}
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.sender == nil {
		return nil
	}
	return b.sender.Send(chatID, text)
}

func (b *Bot) SendTyping(chatID int64) {
	if b.sender == nil {
		return
	}
	b.sender.SendTyping(chatID)
}

func (b *Bot) RecordRateLimitHit() {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit("telegram")
	}
}

type apiSender struct {
	api *tgbotapi.BotAPI
}

func (s apiSender) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := s.api.Send(msg)
	return err
}

func (s apiSender) SendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	s.api.Send(action)
}
