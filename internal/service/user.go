package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kitbuilder587/studynotes/internal/domain"
	"github.com/kitbuilder587/studynotes/internal/repository"
)

// UserService resolves platform accounts for frontends that do not carry a
// web session, such as the telegram bot.
type UserService interface {
	// ByTelegramID returns nil without error when the chat is not linked to an account.
	ByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) ByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn("failed to resolve telegram user",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("telegram chat is not linked", zap.Int64("telegram_id", telegramID))
	return nil, nil
}
