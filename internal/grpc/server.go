package grpc

import (
	"bytes"
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/handlers"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
)

// Server implements the gRPC DraftService on top of the draft and league
// services. Messages are google.protobuf.Struct values shaped like the
// HTTP API's JSON bodies.
type Server struct {
	drafts  handlers.DraftService
	leagues handlers.LeagueService
	pubsub  *pubsub.PubSub
}

var _ DraftServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server
func NewServer(drafts handlers.DraftService, leagues handlers.LeagueService, ps *pubsub.PubSub) *Server {
	return &Server{drafts: drafts, leagues: leagues, pubsub: ps}
}

// InitializeDraft creates a draft. The request has the same fields as
// POST /api/drafts.
func (s *Server) InitializeDraft(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body handlers.InitDraftRequest
	if err := fromStruct(req, &body); err != nil {
		return nil, toStatus(apperrors.Validationf("invalid request: %v", err))
	}
	logger.Debug("gRPC: Initializing draft", "league_id", body.LeagueID)

	res, err := s.drafts.InitializeDraft(ctx, body.ToInitRequest())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

// StartDraft starts ticking a draft
func (s *Server) StartDraft(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transition(ctx, req, "start", s.drafts.StartDraft)
}

// PauseDraft stops ticking a draft
func (s *Server) PauseDraft(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transition(ctx, req, "pause", s.drafts.PauseDraft)
}

// ResumeDraft restarts a paused draft
func (s *Server) ResumeDraft(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transition(ctx, req, "resume", s.drafts.ResumeDraft)
}

func (s *Server) transition(ctx context.Context, req *structpb.Struct, action string, fn func(context.Context, string) error) (*structpb.Struct, error) {
	id, err := field(req, "draftId")
	if err != nil {
		return nil, toStatus(err)
	}
	logger.Info("gRPC: Draft transition", "action", action, "draft_id", id)
	if err := fn(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	state, err := s.drafts.GetDraftSummary(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]interface{}{
		"draftId":     id,
		"status":      state.Status,
		"currentPick": state.CurrentPick,
	})
}

// GetDraftSummary returns the full draft state
func (s *Server) GetDraftSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := field(req, "draftId")
	if err != nil {
		return nil, toStatus(err)
	}
	state, err := s.drafts.GetDraftSummary(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(state)
}

// GenerateCompetitiveLeague returns the league's composition, building it
// on first request
func (s *Server) GenerateCompetitiveLeague(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	comp, err := s.leagues.Generate(ctx, req.GetFields()["leagueId"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(comp)
}

// RegenerateLeague rebuilds the league under a new generation
func (s *Server) RegenerateLeague(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	comp, err := s.leagues.Regenerate(ctx, req.GetFields()["leagueId"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(comp)
}

// StreamEvents streams draft events, optionally limited to one league
func (s *Server) StreamEvents(req *structpb.Struct, stream EventStream) error {
	league := req.GetFields()["leagueId"].GetStringValue()
	logger.Debug("gRPC: New client connected to event stream", "league", league)
	events := s.pubsub.SubscribeLeague(league)
	defer s.pubsub.Unsubscribe(events)

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			msg, err := toStruct(event)
			if err != nil {
				logger.Warn("gRPC: Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			if err := stream.Send(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}

func field(req *structpb.Struct, name string) (string, error) {
	v := req.GetFields()[name].GetStringValue()
	if v == "" {
		return "", apperrors.Validationf("%s is required", name)
	}
	return v, nil
}

// fromStruct decodes a Struct into a JSON-tagged Go value, rejecting
// unknown fields
func fromStruct(in *structpb.Struct, v interface{}) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// toStruct encodes a JSON-tagged Go value as a Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// toStatus maps an error kind onto a gRPC status
func toStatus(err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case apperrors.ErrValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case apperrors.ErrConflict, apperrors.ErrConcurrentTick:
		return status.Error(codes.Aborted, err.Error())
	case apperrors.ErrStateCorruption:
		return status.Error(codes.FailedPrecondition, "draft stalled: "+err.Error())
	default:
		logger.Error("gRPC: Request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
