package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/repositories/repomanager"
)

// FeedbackService records post-exchange reviews and computes trust stats.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m, log: log.With("module", "feedback")}
}

// Submit stores fromUserID's review of the other participant of a COMPLETED
// exchange. Each participant may review an exchange once.
func (s *FeedbackService) Submit(ctx context.Context, exchangeID, fromUserID string, wouldExchangeAgain bool, comment string) (*models.Feedback, error) {
	if err := validateID("exchange id", exchangeID); err != nil {
		return nil, err
	}

	ex, err := s.repomanager.Exchanges(s.db).GetByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex.Status != exchange.StatusCompleted {
		return nil, common.ErrExchangeNotCompleted
	}
	if _, ok := ex.RoleOf(fromUserID); !ok {
		return nil, exchange.ErrForbidden
	}

	f, err := s.repomanager.Feedback(s.db).Create(ctx, &models.Feedback{
		ExchangeID:         ex.ID,
		FromUserID:         fromUserID,
		ToUserID:           ex.Partner(fromUserID),
		WouldExchangeAgain: wouldExchangeAgain,
		Comment:            strings.TrimSpace(comment),
	})
	if err != nil {
		if !errors.Is(err, common.ErrFeedbackExists) {
			s.log.Error(ctx, "store feedback failed", "exchange_id", exchangeID, "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "feedback submitted", "exchange_id", exchangeID, "from_user_id", fromUserID, "to_user_id", f.ToUserID)
	return f, nil
}

// Stats returns userID's completed exchange count and how often reviewers
// would exchange with them again.
func (s *FeedbackService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}

	completed, err := s.repomanager.Exchanges(s.db).CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	total, positive, err := s.repomanager.Feedback(s.db).Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback totals: %w", err)
	}

	return &models.UserStats{
		CompletedCount:           completed,
		RecommendedCount:         positive,
		TotalFeedback:            total,
		RecommendationPercentage: recommendationPercentage(positive, total),
	}, nil
}

func recommendationPercentage(positive, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(positive) / float64(total) * 100))
}
