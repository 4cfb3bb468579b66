package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"artsy/internal/logger"
	"artsy/internal/models"
	"artsy/internal/reqctx"
	"artsy/internal/utils/helpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var errNoToken = errors.New("missing bearer token")

// JWTAuth rejects requests without a valid bearer token.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			req, err := parseBearer(r, secret)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: rejected", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withRequester(r, req)))
		})
	}
}

// OptionalJWT attaches the requester when a valid token is present and
// otherwise lets the request through as anonymous.
func OptionalJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, err := parseBearer(r, secret)
			if err != nil {
				if !errors.Is(err, errNoToken) {
					logger.WithCtx(r.Context()).Debug("OptionalJWT: ignoring bad token", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withRequester(r, req)))
		})
	}
}

func parseBearer(r *http.Request, secret string) (models.Requester, error) {
	authHeader := r.Header.Get("Authorization")
	if secret == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Requester{}, errNoToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Requester{}, err
	}
	if !token.Valid {
		return models.Requester{}, errors.New("token invalid")
	}

	userID, ok1 := claims["user_id"].(string)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 || userID == "" {
		return models.Requester{}, errors.New("unexpected claims payload")
	}
	return models.Requester{UserID: userID, Role: models.Role(strings.ToUpper(role))}, nil
}

func withRequester(r *http.Request, req models.Requester) context.Context {
	ctx := reqctx.WithUserID(r.Context(), req.UserID)
	return reqctx.WithRole(ctx, string(req.Role))
}

// RequesterFrom reads the identity the JWT middleware stored.
func RequesterFrom(ctx context.Context) models.Requester {
	uid, _ := reqctx.GetUserID(ctx)
	role, _ := reqctx.GetRole(ctx)
	return models.Requester{UserID: uid, Role: models.Role(role)}
}

// IssueToken signs an HS256 token carrying the claims JWTAuth reads.
func IssueToken(secret string, req models.Requester, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": req.UserID,
		"role":    string(req.Role),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
