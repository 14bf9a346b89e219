package services

import (
	"context"
	"fmt"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/events"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/repositories/repomanager"
)

// ProposalNotifier tells the responder about a new exchange proposal. It runs
// inside the proposing transaction, so the exchange and its notification are
// stored together or not at all.
type ProposalNotifier struct {
	repomanager repomanager.RepositoryManager
}

func NewProposalNotifier(m repomanager.RepositoryManager) *ProposalNotifier {
	return &ProposalNotifier{repomanager: m}
}

func (n *ProposalNotifier) Handle(ctx context.Context, tx dbx.DBTX, ev events.Event) error {
	p, ok := ev.(events.ExchangeProposed)
	if !ok {
		return nil
	}
	if _, err := n.repomanager.Notifications(tx).Create(ctx, ProposalNotification(p)); err != nil {
		return fmt.Errorf("create proposal notification: %w", err)
	}
	return nil
}

// ProposalNotification builds the responder's notification for p.
func ProposalNotification(p events.ExchangeProposed) *models.Notification {
	return &models.Notification{
		UserID:  p.ResponderID,
		Type:    common.NotificationTypeExchangeProposal,
		Title:   common.ProposalNotificationTitle,
		Message: fmt.Sprintf("%s proposed an exchange: %s for %s", orDefault(p.InitiatorName, "A neighbor"), orDefault(p.InitiatorOffer, "Item"), orDefault(p.ResponderOffer, "Item")),
		Link:    common.ProposalNotificationLink,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
