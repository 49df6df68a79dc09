package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
	pb "github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Mutate(ctx context.Context, method string, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	action, ok := pb.ActionForMethod(method)
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", method)
	}

	out, err := s.study.Apply(ctx, UserIDFromContext(ctx), models.MutationAction(action), in.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, method, err)
	}

	s.logger.Info(ctx, "Applied mutation", "action", action, "user", UserIDFromContext(ctx))
	return wrapperspb.Bytes(out), nil
}

func (s *GRPCServer) GetStudyQueue(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {

	var deckID int64
	if v := in.GetValue(); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, status.Errorf(codes.InvalidArgument, "invalid deck id %q", v)
		}
		deckID = id
	}

	q, err := s.study.StudyQueue(ctx, deckID)
	if err != nil {
		return nil, s.toStatus(ctx, pb.MethodGetStudyQueue, err)
	}

	return marshal(q)
}

func (s *GRPCServer) ListDecks(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BytesValue, error) {

	return marshal(s.study.Decks(ctx))
}

func (s *GRPCServer) Ping(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error) {

	return wrapperspb.String(common.PingStatusOK), nil
}

func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func marshal(v any) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return wrapperspb.Bytes(b), nil
}
