package matching

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle state of an offer or a wish.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRemoved Status = "REMOVED"
)

// MatchType tags how a Match was discovered.
type MatchType string

const (
	TypeOfferForWish MatchType = "offer_for_wish"
	TypeWishForOffer MatchType = "wish_for_offer"
	TypeReciprocal   MatchType = "reciprocal"
)

// Default thresholds.
const (
	DefaultMinScore           = 30.0
	DefaultReciprocalMinScore = 25.0
)

var errMissingID = errors.New("listing id and owner id are required")

// Listing holds the fields shared by offers and wishes.
// OwnerArea is the owner's postcode area; empty means unknown.
type Listing struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	OwnerID     string
	OwnerName   string
	OwnerArea   string
	Status      Status
	CreatedAt   time.Time
}

// Offer is something a user is willing to give.
type Offer struct {
	Listing
}

// Wish is something a user is looking for.
type Wish struct {
	Listing
}

// NewOffer validates l and returns it as an Offer.
func NewOffer(l Listing) (Offer, error) {
	if err := l.validate(); err != nil {
		return Offer{}, err
	}
	return Offer{Listing: l.normalized()}, nil
}

// NewWish validates l and returns it as a Wish.
func NewWish(l Listing) (Wish, error) {
	if err := l.validate(); err != nil {
		return Wish{}, err
	}
	return Wish{Listing: l.normalized()}, nil
}

func (l Listing) validate() error {
	if strings.TrimSpace(l.ID) == "" || strings.TrimSpace(l.OwnerID) == "" {
		return errMissingID
	}
	return nil
}

func (l Listing) normalized() Listing {
	if l.Status == "" {
		l.Status = StatusActive
	}
	l.OwnerArea = strings.TrimSpace(l.OwnerArea)
	return l
}

// Score is the result of scoring one offer against one wish.
type Score struct {
	Value   float64
	Reasons []string
}

// Match is a scored pairing. It is computed on demand and never persisted.
type Match struct {
	Score   float64
	Offer   Offer
	Wish    Wish
	Type    MatchType
	Reasons []string
}

// Config holds the tunable thresholds.
type Config struct {
	MinScore           float64
	ReciprocalMinScore float64
}

// DefaultConfig returns the stock thresholds (30 one-directional, 25 reciprocal).
func DefaultConfig() Config {
	return Config{
		MinScore:           DefaultMinScore,
		ReciprocalMinScore: DefaultReciprocalMinScore,
	}
}
