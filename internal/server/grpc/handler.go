package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/server/api"
	"github.com/handtohand/marketplace/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(ctx, api.Object{"status": "OK"})
}

func (s *GRPCServer) FindMatches(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	kind, err := services.ParseMatchKind(stringField(req, "type"))
	if err != nil {
		return nil, s.toStatus(ctx, MethodFindMatches, err)
	}

	res, err := s.matches.Find(ctx, userID, kind)
	if err != nil {
		return nil, s.toStatus(ctx, MethodFindMatches, err)
	}

	return s.reply(ctx, api.Matches(res))
}

func (s *GRPCServer) ProposeExchange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.exchanges.Propose(ctx, userID,
		stringField(req, "partner_id"), stringField(req, "offer_title"), stringField(req, "wish_title"))
	if err != nil {
		return nil, s.toStatus(ctx, MethodProposeExchange, err)
	}

	return s.reply(ctx, api.Exchange(e))
}

func (s *GRPCServer) GetActiveExchange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.exchanges.Active(ctx, userID, stringField(req, "partner_id"))
	if errors.Is(err, common.ErrorNotFound) {
		return s.reply(ctx, api.NoExchange())
	}
	if err != nil {
		return nil, s.toStatus(ctx, MethodGetActiveExchange, err)
	}

	return s.reply(ctx, api.Exchange(e))
}

func (s *GRPCServer) ApplyExchangeAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	action := exchange.Action(stringField(req, "action"))
	e, err := s.exchanges.Act(ctx, stringField(req, "exchange_id"), userID, action)
	if err != nil {
		return nil, s.toStatus(ctx, MethodApplyExchangeAction, err)
	}

	return s.reply(ctx, api.Exchange(e))
}

func (s *GRPCServer) SubmitFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	again, ok := boolField(req, "would_exchange_again")
	if !ok {
		return nil, s.toStatus(ctx, MethodSubmitFeedback,
			fmt.Errorf("%w: would_exchange_again is required", common.ErrorValidation))
	}

	fb, err := s.feedback.Submit(ctx, stringField(req, "exchange_id"), userID, again, stringField(req, "comment"))
	if err != nil {
		return nil, s.toStatus(ctx, MethodSubmitFeedback, err)
	}

	return s.reply(ctx, api.Feedback(fb))
}

// GetUserStats defaults to the caller when user_id is omitted.
func (s *GRPCServer) GetUserStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if id := stringField(req, "user_id"); id != "" {
		userID = id
	}

	stats, err := s.feedback.Stats(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, MethodGetUserStats, err)
	}

	return s.reply(ctx, api.Stats(stats))
}

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return userID, nil
}

func (s *GRPCServer) reply(ctx context.Context, obj api.Object) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(obj)
	if err != nil {
		s.logger.Error(ctx, "encode response failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	_, code, msg := api.Status(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	}
	return status.Error(code, msg)
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func boolField(req *structpb.Struct, key string) (bool, bool) {
	v, ok := req.GetFields()[key]
	if !ok {
		return false, false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, false
	}
	return b.BoolValue, true
}
