package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/events"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/config"
	"github.com/handtohand/marketplace/internal/server/repositories/repomanager"
)

// ExchangeService creates exchanges and applies participant actions to them.
//
// Actions are decided by exchange.Decide against the stored row and written
// with a version check; a concurrent write makes the check fail, and the
// action is re-read and re-decided up to attempts times.
type ExchangeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bus         *events.Bus
	publisher   events.Publisher
	attempts    int
	now         func() time.Time
	log         logging.Logger
}

func NewExchangeService(db *sql.DB, m repomanager.RepositoryManager, bus *events.Bus, pub events.Publisher,
	cfg *config.Config, log logging.Logger) *ExchangeService {
	attempts := cfg.ExchangeUpdateAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &ExchangeService{
		db:          db,
		repomanager: m,
		bus:         bus,
		publisher:   pub,
		attempts:    attempts,
		now:         time.Now,
		log:         log.With("module", "exchanges"),
	}
}

// Propose creates a PROPOSED exchange from initiatorID to responderID. The
// offers are free-text snapshots of what each side brings. Subscribers of
// events.ExchangeProposed run in the same transaction.
func (s *ExchangeService) Propose(ctx context.Context, initiatorID, responderID, initiatorOffer, responderOffer string) (exchange.Exchange, error) {
	if err := validateID("initiator id", initiatorID); err != nil {
		return exchange.Exchange{}, err
	}
	if err := validateID("partner id", responderID); err != nil {
		return exchange.Exchange{}, err
	}
	if initiatorID == responderID {
		return exchange.Exchange{}, fmt.Errorf("%w: cannot propose an exchange to yourself", common.ErrorValidation)
	}

	var (
		created exchange.Exchange
		ev      events.ExchangeProposed
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Exchanges(tx)

		_, err := repo.FindActiveBetween(ctx, initiatorID, responderID)
		switch {
		case err == nil:
			return common.ErrActiveExchangeExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		e := exchange.New(initiatorID, responderID, initiatorOffer, responderOffer, s.now().UTC())
		e.ID = uuid.NewString()

		created, err = repo.Create(ctx, e)
		if err != nil {
			return err
		}

		ev = events.ExchangeProposed{
			ExchangeID:     created.ID,
			InitiatorID:    created.InitiatorID,
			InitiatorName:  s.displayName(ctx, tx, initiatorID),
			ResponderID:    created.ResponderID,
			InitiatorOffer: created.InitiatorOffer,
			ResponderOffer: created.ResponderOffer,
		}
		return s.bus.Dispatch(ctx, tx, ev)
	})
	if err != nil {
		if !errors.Is(err, common.ErrActiveExchangeExists) {
			s.log.Error(ctx, "propose exchange failed", "initiator_id", initiatorID, "responder_id", responderID, "error", err)
		}
		return exchange.Exchange{}, err
	}

	s.log.Info(ctx, "exchange proposed", "exchange_id", created.ID, "initiator_id", initiatorID, "responder_id", responderID)
	s.publish(ctx, ev)
	return created, nil
}

// Active returns the latest PROPOSED or AGREED exchange between userID and
// partnerID, or common.ErrorNotFound.
func (s *ExchangeService) Active(ctx context.Context, userID, partnerID string) (exchange.Exchange, error) {
	if err := validateID("partner id", partnerID); err != nil {
		return exchange.Exchange{}, err
	}
	return s.repomanager.Exchanges(s.db).FindActiveBetween(ctx, userID, partnerID)
}

// Act applies action by actorID to the exchange. Rejections are returned as
// *exchange.RejectionError and leave the record untouched. An initiator
// AGREE changes nothing and returns the stored record.
func (s *ExchangeService) Act(ctx context.Context, exchangeID, actorID string, action exchange.Action) (exchange.Exchange, error) {
	if err := validateID("exchange id", exchangeID); err != nil {
		return exchange.Exchange{}, err
	}

	repo := s.repomanager.Exchanges(s.db)
	for attempt := 1; ; attempt++ {
		current, err := repo.GetByID(ctx, exchangeID)
		if err != nil {
			return exchange.Exchange{}, err
		}

		updates, err := exchange.Decide(current, actorID, action, s.now().UTC())
		if err != nil {
			s.log.Info(ctx, "exchange action rejected",
				"exchange_id", exchangeID, "actor_id", actorID, "action", string(action), "status", string(current.Status), "reason", err.Error())
			return exchange.Exchange{}, err
		}
		if updates.Empty() {
			return current, nil
		}

		updated := updates.ApplyTo(current)
		updated.Version = current.Version + 1
		ev := events.ExchangeUpdated{
			ExchangeID:     updated.ID,
			InitiatorID:    updated.InitiatorID,
			ResponderID:    updated.ResponderID,
			ActorID:        actorID,
			Action:         string(action),
			Status:         string(updated.Status),
			PreviousStatus: string(current.Status),
		}

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Exchanges(tx).Update(ctx, current.ID, current.Version, updates); err != nil {
				return err
			}
			return s.bus.Dispatch(ctx, tx, ev)
		})
		if errors.Is(err, common.ErrVersionConflict) && attempt < s.attempts {
			s.log.Warn(ctx, "exchange changed concurrently, retrying", "exchange_id", exchangeID, "attempt", attempt)
			continue
		}
		if err != nil {
			s.log.Error(ctx, "exchange update failed", "exchange_id", exchangeID, "action", string(action), "error", err)
			return exchange.Exchange{}, err
		}

		s.log.Info(ctx, "exchange updated", "exchange_id", exchangeID, "actor_id", actorID,
			"action", string(action), "from", string(current.Status), "to", string(updated.Status))
		s.publish(ctx, ev)
		return updated, nil
	}
}

func (s *ExchangeService) displayName(ctx context.Context, db dbx.DBTX, userID string) string {
	u, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "initiator profile lookup failed", "user_id", userID, "error", err)
		}
		return ""
	}
	return u.DisplayName
}

func (s *ExchangeService) publish(ctx context.Context, ev events.Event) {
	env := events.NewEnvelope(ev, s.now())
	if err := s.publisher.Publish(ctx, env); err != nil {
		s.log.Warn(ctx, "publish event failed", "event_id", env.ID, "type", env.Type, "error", err)
	}
}

func validateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid %s", common.ErrorValidation, field)
	}
	return nil
}
