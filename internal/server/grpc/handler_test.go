package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/matching"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func authed() context.Context {
	return WithUserID(context.Background(), alice)
}

func TestPing_OK(t *testing.T) {
	s := newTestServer("k", nil, nil, nil)
	resp, err := s.Ping(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.GetFields()["status"].GetStringValue())
}

func TestHandlers_RequireCaller(t *testing.T) {
	s := newTestServer("k", &fakeMatches{}, &fakeExchanges{}, &fakeFeedback{})
	calls := map[string]func(context.Context, *structpb.Struct) (*structpb.Struct, error){
		MethodFindMatches:         s.FindMatches,
		MethodProposeExchange:     s.ProposeExchange,
		MethodGetActiveExchange:   s.GetActiveExchange,
		MethodApplyExchangeAction: s.ApplyExchangeAction,
		MethodSubmitFeedback:      s.SubmitFeedback,
		MethodGetUserStats:        s.GetUserStats,
	}
	for name, call := range calls {
		_, err := call(context.Background(), &structpb.Struct{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err), name)
	}
}

func TestFindMatches(t *testing.T) {
	m := &fakeMatches{res: &services.MatchResult{Reciprocal: []matching.Match{{
		Score: 40, Type: matching.TypeReciprocal, Reasons: []string{matching.ReasonMutualInterest},
		Offer: matching.Offer{Listing: matching.Listing{ID: "o1", OwnerID: bob}},
		Wish:  matching.Wish{Listing: matching.Listing{ID: "w1", OwnerID: bob}},
	}}}}
	s := newTestServer("k", m, nil, nil)

	resp, err := s.FindMatches(authed(), request(t, map[string]any{"type": "reciprocal"}))
	require.NoError(t, err)
	assert.Equal(t, alice, m.gotUser)
	assert.Equal(t, services.MatchReciprocal, m.gotKind)

	matches := resp.AsMap()["matches"].(map[string]any)
	assert.Len(t, matches["reciprocalMatches"], 1)
	assert.NotContains(t, matches, "offersForWishes")
}

func TestFindMatches_Errors(t *testing.T) {
	s := newTestServer("k", &fakeMatches{}, nil, nil)
	_, err := s.FindMatches(authed(), request(t, map[string]any{"type": "everything"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	s = newTestServer("k", &fakeMatches{err: fmt.Errorf("find: %w", context.DeadlineExceeded)}, nil, nil)
	_, err = s.FindMatches(authed(), &structpb.Struct{})
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))

	s = newTestServer("k", &fakeMatches{err: errors.New("db down")}, nil, nil)
	_, err = s.FindMatches(authed(), &structpb.Struct{})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
}

func TestProposeExchange(t *testing.T) {
	e := &fakeExchanges{out: exchange.New(alice, bob, "Drill", "Tent", created)}
	e.out.ID = exID
	s := newTestServer("k", nil, e, nil)

	resp, err := s.ProposeExchange(authed(), request(t, map[string]any{
		"partner_id": bob, "offer_title": "Drill", "wish_title": "Tent",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob, "Drill", "Tent"}, e.args)

	ex := resp.AsMap()["exchange"].(map[string]any)
	assert.Equal(t, exID, ex["id"])
	assert.Equal(t, "PROPOSED", ex["status"])

	e.err = common.ErrActiveExchangeExists
	_, err = s.ProposeExchange(authed(), request(t, map[string]any{"partner_id": bob}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGetActiveExchange_NoneIsNull(t *testing.T) {
	e := &fakeExchanges{err: common.ErrorNotFound}
	s := newTestServer("k", nil, e, nil)

	resp, err := s.GetActiveExchange(authed(), request(t, map[string]any{"partner_id": bob}))
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob}, e.args)
	assert.Nil(t, resp.AsMap()["exchange"])
}

func TestApplyExchangeAction(t *testing.T) {
	cur := exchange.New(alice, bob, "Drill", "Tent", created)
	e := &fakeExchanges{out: cur}
	s := newTestServer("k", nil, e, nil)

	_, err := s.ApplyExchangeAction(authed(), request(t, map[string]any{"exchange_id": exID, "action": "AGREE"}))
	require.NoError(t, err)
	assert.Equal(t, []string{exID, alice, "AGREE"}, e.args)

	_, e.err = exchange.Decide(cur, "stranger", exchange.ActionCancel, created)
	_, err = s.ApplyExchangeAction(authed(), request(t, map[string]any{"exchange_id": exID, "action": "CANCEL"}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, e.err = exchange.Decide(cur, alice, exchange.Action("SHIP"), created)
	_, err = s.ApplyExchangeAction(authed(), request(t, map[string]any{"exchange_id": exID, "action": "SHIP"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubmitFeedback(t *testing.T) {
	f := &fakeFeedback{fb: &models.Feedback{ID: "f1", ExchangeID: exID, FromUserID: alice, ToUserID: bob, WouldExchangeAgain: false}}
	s := newTestServer("k", nil, nil, f)

	_, err := s.SubmitFeedback(authed(), request(t, map[string]any{"exchange_id": exID}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "would_exchange_again is required")

	_, err = s.SubmitFeedback(authed(), request(t, map[string]any{"exchange_id": exID, "would_exchange_again": "yes"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "must be a bool")

	resp, err := s.SubmitFeedback(authed(), request(t, map[string]any{
		"exchange_id": exID, "would_exchange_again": false, "comment": "late",
	}))
	require.NoError(t, err)
	assert.Equal(t, alice, f.gotUser)
	assert.False(t, f.gotAgain)
	assert.Equal(t, "late", f.gotComment)
	assert.Equal(t, bob, resp.AsMap()["feedback"].(map[string]any)["to_user_id"])

	f.err = common.ErrFeedbackExists
	_, err = s.SubmitFeedback(authed(), request(t, map[string]any{"exchange_id": exID, "would_exchange_again": true}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGetUserStats_DefaultsToCaller(t *testing.T) {
	f := &fakeFeedback{stats: &models.UserStats{CompletedCount: 2}}
	s := newTestServer("k", nil, nil, f)

	_, err := s.GetUserStats(authed(), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, alice, f.gotUser)

	resp, err := s.GetUserStats(authed(), request(t, map[string]any{"user_id": bob}))
	require.NoError(t, err)
	assert.Equal(t, bob, f.gotUser)
	assert.Equal(t, 2.0, resp.AsMap()["stats"].(map[string]any)["completed_count"])
}
