package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
	pb "github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.SyncServiceClient
	creds       *auth.Credentials
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the bearer token when one is available
// and drops it once the server rejects it.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.creds != nil {
		if token, ok := s.creds.Token(); ok {
			ctx = withAccessToken(ctx, token)
		}
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	if status.Code(err) == codes.Unauthenticated && s.creds != nil {
		s.creds.Clear()
	}

	return err
}

// NewGRPCClient dials endpointURL lazily. Extra dial options are appended
// after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, creds *auth.Credentials, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, creds: creds, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewSyncServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Call(ctx context.Context, action models.MutationAction, payload json.RawMessage) ([]byte, error) {
	method, ok := pb.MethodForAction(string(action))
	if !ok {
		return nil, &RemoteError{Op: string(action), Code: codes.InvalidArgument.String(), Permanent: true, Err: models.ErrUnknownAction}
	}

	ctx, cancel := withDefaultTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Mutate(ctx, method, wrapperspb.Bytes(payload))
	if err != nil {
		return nil, s.mapError(string(action), err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) Query(ctx context.Context, key models.QueryKey) ([]byte, error) {
	ctx, cancel := withDefaultTimeout(ctx, s.timeout)
	defer cancel()

	var (
		resp *wrapperspb.BytesValue
		err  error
	)

	switch key.Kind {
	case models.QueryStudyQueue:
		deck := ""
		if key.DeckID != 0 {
			deck = strconv.FormatInt(key.DeckID, 10)
		}
		resp, err = s.client.GetStudyQueue(ctx, wrapperspb.String(deck))
	case models.QueryDecks:
		resp, err = s.client.ListDecks(ctx, &emptypb.Empty{})
	default:
		return nil, &RemoteError{Op: key.String(), Code: codes.InvalidArgument.String(), Permanent: true, Err: ErrUnknownQuery}
	}

	if err != nil {
		return nil, s.mapError(key.String(), err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := withDefaultTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(pb.MethodPing, err)
	}

	if resp.GetValue() != common.PingStatusOK {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &RemoteError{Op: op, Code: codes.DeadlineExceeded.String(), Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	st, ok := status.FromError(err)
	if !ok {
		return &RemoteError{Op: op, Code: codes.Unknown.String(), Err: err}
	}

	re := &RemoteError{Op: op, Code: st.Code().String(), Err: err}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		re.Err = fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		re.Err = fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.FailedPrecondition, codes.OutOfRange, codes.Unimplemented:
		re.Permanent = true
	}

	return re
}
