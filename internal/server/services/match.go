// Package services contains server-side business logic: matching, the
// exchange lifecycle, notifications and feedback. Services own transaction
// boundaries and translate repository rows into domain values.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/matching"
	"github.com/handtohand/marketplace/internal/server/config"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/repositories/listings"
	"github.com/handtohand/marketplace/internal/server/repositories/repomanager"
)

// MatchKind selects which match categories a request computes.
type MatchKind string

const (
	MatchAll             MatchKind = "all"
	MatchOffersForWishes MatchKind = "offers_for_wishes"
	MatchWishesForOffers MatchKind = "wishes_for_offers"
	MatchReciprocal      MatchKind = "reciprocal"
)

// ParseMatchKind maps the request parameter to a MatchKind; "" means all.
func ParseMatchKind(s string) (MatchKind, error) {
	switch k := MatchKind(s); k {
	case "":
		return MatchAll, nil
	case MatchAll, MatchOffersForWishes, MatchWishesForOffers, MatchReciprocal:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown match type %q", common.ErrorValidation, s)
}

func (k MatchKind) includes(c MatchKind) bool {
	return k == MatchAll || k == c
}

// MatchResult holds the requested categories. Categories that were not
// requested are nil; requested ones are non-nil even when empty.
type MatchResult struct {
	OffersForWishes []matching.Match
	WishesForOffers []matching.Match
	Reciprocal      []matching.Match
}

// MatchService loads the requester's and everyone else's ACTIVE listings and
// runs the matching engine over them.
type MatchService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	finder      matching.ReciprocalFinder
	cfg         matching.Config
	timeout     time.Duration

	offersForWishesLimit int
	wishesForOffersLimit int
	reciprocalLimit      int

	log logging.Logger
}

func NewMatchService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *MatchService {
	return &MatchService{
		db:          db,
		repomanager: m,
		finder:      matching.NestedLoop{},
		cfg: matching.Config{
			MinScore:           cfg.MinScore,
			ReciprocalMinScore: cfg.ReciprocalMinScore,
		},
		timeout:              cfg.MatchTimeout,
		offersForWishesLimit: cfg.OffersForWishesLimit,
		wishesForOffersLimit: cfg.WishesForOffersLimit,
		reciprocalLimit:      cfg.ReciprocalLimit,
		log:                  log.With("module", "matches"),
	}
}

// pool is everything one match request scores over.
type pool struct {
	area        string
	myOffers    []matching.Offer
	myWishes    []matching.Wish
	otherOffers []matching.Offer
	otherWishes []matching.Wish
}

// Find computes the matches of kind for userID, truncated to the configured
// per-category limits.
func (s *MatchService) Find(ctx context.Context, userID string, kind MatchKind) (*MatchResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	p, err := s.load(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	res := &MatchResult{}
	if kind.includes(MatchOffersForWishes) {
		res.OffersForWishes = limit(matching.FindOffersForWishes(p.myWishes, p.otherOffers, p.area, s.cfg.MinScore), s.offersForWishesLimit)
	}
	if kind.includes(MatchWishesForOffers) {
		res.WishesForOffers = limit(matching.FindWishesForOffers(p.myOffers, p.otherWishes, p.area, s.cfg.MinScore), s.wishesForOffersLimit)
	}
	if kind.includes(MatchReciprocal) {
		matches, err := s.finder.FindReciprocal(ctx, matching.ReciprocalInput{
			MyOffers:        p.myOffers,
			MyWishes:        p.myWishes,
			CandidateOffers: p.otherOffers,
			CandidateWishes: p.otherWishes,
			RequesterArea:   p.area,
		}, s.cfg.ReciprocalMinScore)
		if err != nil {
			return nil, fmt.Errorf("reciprocal matches: %w", err)
		}
		res.Reciprocal = limit(matches, s.reciprocalLimit)
	}

	s.log.Info(ctx, "matches computed", "user_id", userID, "type", string(kind),
		"offers_for_wishes", len(res.OffersForWishes),
		"wishes_for_offers", len(res.WishesForOffers),
		"reciprocal", len(res.Reciprocal))

	return res, nil
}

func (s *MatchService) load(ctx context.Context, userID string, kind MatchKind) (*pool, error) {
	p := &pool{}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	switch {
	case err == nil:
		p.area = user.PostcodeOutward
	case errors.Is(err, common.ErrorNotFound):
		// no profile yet: matching still runs, without proximity
	default:
		return nil, fmt.Errorf("load requester: %w", err)
	}

	repo := s.repomanager.Listings(s.db)
	needOffers := kind.includes(MatchWishesForOffers) || kind.includes(MatchReciprocal)
	needWishes := kind.includes(MatchOffersForWishes) || kind.includes(MatchReciprocal)
	needOtherOffers := kind.includes(MatchOffersForWishes) || kind.includes(MatchReciprocal)
	needOtherWishes := kind.includes(MatchWishesForOffers) || kind.includes(MatchReciprocal)

	if needOffers {
		rows, err := repo.ListByOwner(ctx, listings.KindOffer, userID)
		if err != nil {
			return nil, fmt.Errorf("load own offers: %w", err)
		}
		p.myOffers = s.toOffers(ctx, rows)
	}
	if needWishes {
		rows, err := repo.ListByOwner(ctx, listings.KindWish, userID)
		if err != nil {
			return nil, fmt.Errorf("load own wishes: %w", err)
		}
		p.myWishes = s.toWishes(ctx, rows)
	}
	if needOtherOffers {
		rows, err := repo.ListExcludingOwner(ctx, listings.KindOffer, userID)
		if err != nil {
			return nil, fmt.Errorf("load offers: %w", err)
		}
		p.otherOffers = s.toOffers(ctx, rows)
	}
	if needOtherWishes {
		rows, err := repo.ListExcludingOwner(ctx, listings.KindWish, userID)
		if err != nil {
			return nil, fmt.Errorf("load wishes: %w", err)
		}
		p.otherWishes = s.toWishes(ctx, rows)
	}
	return p, nil
}

func toListing(r models.Listing) matching.Listing {
	return matching.Listing{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		OwnerID:     r.UserID,
		OwnerName:   r.OwnerName,
		OwnerArea:   r.OwnerArea,
		Status:      matching.Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func (s *MatchService) toOffers(ctx context.Context, rows []models.Listing) []matching.Offer {
	out := make([]matching.Offer, 0, len(rows))
	for _, r := range rows {
		o, err := matching.NewOffer(toListing(r))
		if err != nil {
			s.log.Warn(ctx, "skipping offer", "offer_id", r.ID, "error", err)
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *MatchService) toWishes(ctx context.Context, rows []models.Listing) []matching.Wish {
	out := make([]matching.Wish, 0, len(rows))
	for _, r := range rows {
		w, err := matching.NewWish(toListing(r))
		if err != nil {
			s.log.Warn(ctx, "skipping wish", "wish_id", r.ID, "error", err)
			continue
		}
		out = append(out, w)
	}
	return out
}

func limit(m []matching.Match, n int) []matching.Match {
	if n >= 0 && len(m) > n {
		return m[:n]
	}
	return m
}
