package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/handtohand/marketplace/internal/common"
	gs "github.com/handtohand/marketplace/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Document is a decoded reply.
type Document = map[string]any

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a connection to endpointURL. Extra options are
// appended after the defaults, which use plaintext transport.
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.call(ctx, gs.MethodPing, Document{})
	return err
}

// FindMatches requests one of all, offers_for_wishes, wishes_for_offers or
// reciprocal; empty means all.
func (s *GRPCClient) FindMatches(ctx context.Context, kind string) (Document, error) {
	return s.call(ctx, gs.MethodFindMatches, Document{"type": kind})
}

func (s *GRPCClient) ProposeExchange(ctx context.Context, partnerID, offerTitle, wishTitle string) (Document, error) {
	return s.call(ctx, gs.MethodProposeExchange, Document{
		"partner_id":  partnerID,
		"offer_title": offerTitle,
		"wish_title":  wishTitle,
	})
}

func (s *GRPCClient) GetActiveExchange(ctx context.Context, partnerID string) (Document, error) {
	return s.call(ctx, gs.MethodGetActiveExchange, Document{"partner_id": partnerID})
}

func (s *GRPCClient) ApplyExchangeAction(ctx context.Context, exchangeID, action string) (Document, error) {
	return s.call(ctx, gs.MethodApplyExchangeAction, Document{"exchange_id": exchangeID, "action": action})
}

func (s *GRPCClient) SubmitFeedback(ctx context.Context, exchangeID string, wouldExchangeAgain bool, comment string) (Document, error) {
	return s.call(ctx, gs.MethodSubmitFeedback, Document{
		"exchange_id":          exchangeID,
		"would_exchange_again": wouldExchangeAgain,
		"comment":              comment,
	})
}

// GetUserStats returns the caller's stats when userID is empty.
func (s *GRPCClient) GetUserStats(ctx context.Context, userID string) (Document, error) {
	req := Document{}
	if userID != "" {
		req["user_id"] = userID
	}
	return s.call(ctx, gs.MethodGetUserStats, req)
}

func (s *GRPCClient) call(ctx context.Context, method string, req Document) (Document, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, gs.FullMethod(method), in, out); err != nil {
		return nil, s.mapError(err)
	}
	return out.AsMap(), nil
}

// mapError keeps the server's message for request errors, which are meant
// to be shown to the user.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.FailedPrecondition:
		return errors.New(st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
