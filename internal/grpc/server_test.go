package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/auth"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/dal"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/draft"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/league"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/personality"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
)

func init() {
	logger.Init("error", "text")
}

type testClient struct {
	*Client
	ps *pubsub.PubSub
}

// session tokens known to the test server
var testSessions = map[string]*auth.User{
	"commish": auth.DevUser(),
	"fan":     {ID: "fan-1", Username: "fan", Groups: []string{"users"}},
}

func lookupTestSession(token string) (*auth.User, bool) {
	u, ok := testSessions[token]
	return u, ok
}

func commissioner() context.Context {
	return WithSession(context.Background(), "commish")
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	store := dal.NewMemoryStore()
	ps := pubsub.New()
	personas := personality.NewFactory(nil, nil)
	orch := draft.New(draft.Options{Store: store, Publisher: ps, Personalities: personas, TickEvery: time.Hour})
	leagues := league.NewService(league.Options{Store: store, Publisher: ps, Personalities: personas})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(CommissionerOnly(lookupTestSession)))
	Register(srv, NewServer(orch, leagues, ps))
	go srv.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
		orch.Scheduler().Shutdown(context.Background())
	})
	return &testClient{Client: NewClient(conn), ps: ps}
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestDraftLifecycleOverGRPC(t *testing.T) {
	c := newTestClient(t)
	ctx := commissioner()

	res, err := c.Call(ctx, "InitializeDraft", mustStruct(t, map[string]interface{}{"leagueId": "default", "rounds": 15}))
	require.NoError(t, err)
	id := res.GetFields()["draftId"].GetStringValue()
	require.NotEmpty(t, id)
	assert.Len(t, res.GetFields()["draftOrder"].GetListValue().GetValues(), 10)

	req := mustStruct(t, map[string]interface{}{"draftId": id})

	out, err := c.Call(ctx, "StartDraft", req)
	require.NoError(t, err)
	assert.Equal(t, "active", out.GetFields()["status"].GetStringValue())

	out, err = c.Call(ctx, "PauseDraft", req)
	require.NoError(t, err)
	assert.Equal(t, "paused", out.GetFields()["status"].GetStringValue())

	out, err = c.Call(ctx, "ResumeDraft", req)
	require.NoError(t, err)
	assert.Equal(t, "active", out.GetFields()["status"].GetStringValue())

	out, err = c.Call(ctx, "GetDraftSummary", req)
	require.NoError(t, err)
	assert.Equal(t, id, out.GetFields()["draftId"].GetStringValue())
	assert.Equal(t, float64(1), out.GetFields()["currentPick"].GetNumberValue())
}

func TestGRPCErrorCodes(t *testing.T) {
	c := newTestClient(t)
	ctx := commissioner()

	created, err := c.Call(ctx, "InitializeDraft", mustStruct(t, map[string]interface{}{}))
	require.NoError(t, err)
	id := created.GetFields()["draftId"].GetStringValue()

	tests := []struct {
		name   string
		method string
		req    map[string]interface{}
		code   codes.Code
	}{
		{"missing draft", "GetDraftSummary", map[string]interface{}{"draftId": "nope"}, codes.NotFound},
		{"missing id", "StartDraft", map[string]interface{}{}, codes.InvalidArgument},
		{"unknown field", "InitializeDraft", map[string]interface{}{"teamCount": 12}, codes.InvalidArgument},
		{"auction", "InitializeDraft", map[string]interface{}{"draftType": "auction"}, codes.InvalidArgument},
		{"pause before start", "PauseDraft", map[string]interface{}{"draftId": id}, codes.Aborted},
		{"unknown league", "GenerateCompetitiveLeague", map[string]interface{}{"leagueId": "nowhere"}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Call(ctx, tt.method, mustStruct(t, tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.Aborted, status.Code(toStatus(apperrors.ConcurrentTickf("busy"))))
	assert.Equal(t, codes.FailedPrecondition, status.Code(toStatus(apperrors.StateCorruptionf("bad pick"))))

	st := status.Convert(toStatus(errors.New("dsn=postgres://secret")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "secret")
}

func TestLeagueOverGRPC(t *testing.T) {
	c := newTestClient(t)
	ctx := commissioner()
	req := mustStruct(t, map[string]interface{}{"leagueId": "default"})

	out, err := c.Call(ctx, "GenerateCompetitiveLeague", req)
	require.NoError(t, err)
	assert.Equal(t, float64(1), out.GetFields()["generation"].GetNumberValue())

	out, err = c.Call(ctx, "RegenerateLeague", req)
	require.NoError(t, err)
	assert.Equal(t, float64(2), out.GetFields()["generation"].GetNumberValue())
}

func TestStreamEventsFiltersByLeague(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := c.StreamEvents(ctx, "default")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.ps.SubscriberCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	c.ps.Publish(pubsub.NewEvent(pubsub.DraftPick, "other", "d-9", nil))
	c.ps.Publish(pubsub.NewEvent(pubsub.DraftPick, "default", "d-1", map[string]interface{}{"pick": 4}))

	msg, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, pubsub.DraftPick, msg.GetFields()["type"].GetStringValue())
	assert.Equal(t, "d-1", msg.GetFields()["draftId"].GetStringValue())
	assert.Equal(t, float64(4), msg.GetFields()["payload"].GetStructValue().GetFields()["pick"].GetNumberValue())
}

func TestCommissionerMethodsRequireSession(t *testing.T) {
	c := newTestClient(t)

	created, err := c.Call(context.Background(), "InitializeDraft", mustStruct(t, map[string]interface{}{}))
	require.NoError(t, err)
	id := created.GetFields()["draftId"].GetStringValue()
	draftReq := mustStruct(t, map[string]interface{}{"draftId": id})
	leagueReq := mustStruct(t, map[string]interface{}{"leagueId": "default"})

	callers := []struct {
		name string
		ctx  context.Context
		code codes.Code
	}{
		{"anonymous", context.Background(), codes.Unauthenticated},
		{"unknown session", WithSession(context.Background(), "expired"), codes.Unauthenticated},
		{"not a commissioner", WithSession(context.Background(), "fan"), codes.PermissionDenied},
	}
	for _, caller := range callers {
		t.Run(caller.name, func(t *testing.T) {
			for _, method := range []string{"StartDraft", "PauseDraft", "ResumeDraft"} {
				_, err := c.Call(caller.ctx, method, draftReq)
				assert.Equal(t, caller.code, status.Code(err), method)
			}
			_, err := c.Call(caller.ctx, "RegenerateLeague", leagueReq)
			assert.Equal(t, caller.code, status.Code(err))

			// reads stay open
			_, err = c.Call(caller.ctx, "GetDraftSummary", draftReq)
			assert.NoError(t, err)
		})
	}

	summary, err := c.Call(context.Background(), "GetDraftSummary", draftReq)
	require.NoError(t, err)
	assert.Equal(t, "initialized", summary.GetFields()["status"].GetStringValue())

	_, err = c.Call(commissioner(), "StartDraft", draftReq)
	assert.NoError(t, err)
}
