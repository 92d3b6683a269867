package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/auth"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
)

const authorizationHeader = "authorization"

// commissionerMethods mirror the HTTP routes behind auth.RequireCommissioner
var commissionerMethods = map[string]bool{
	"/" + ServiceName + "/StartDraft":       true,
	"/" + ServiceName + "/PauseDraft":       true,
	"/" + ServiceName + "/ResumeDraft":      true,
	"/" + ServiceName + "/RegenerateLeague": true,
}

// SessionLookup resolves a session token to its user
type SessionLookup func(token string) (*auth.User, bool)

// CommissionerOnly guards the draft control methods. Callers send the session
// token from /auth/login as "authorization: Bearer <token>" metadata.
func CommissionerOnly(lookup SessionLookup) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !commissionerMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		token := sessionToken(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "login required")
		}
		user, ok := lookup(token)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "login required")
		}
		if !auth.IsCommissioner(user) {
			logger.Warn("gRPC: Commissioner call refused", "method", info.FullMethod, "user", user.Username)
			return nil, status.Error(codes.PermissionDenied, "commissioner access required")
		}
		return handler(auth.WithUser(ctx, user), req)
	}
}

func sessionToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(authorizationHeader) {
		if token, found := strings.CutPrefix(v, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// WithSession attaches a session token to outgoing calls
func WithSession(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, authorizationHeader, "Bearer "+token)
}
