package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

type contextKey string

const accountContextKey contextKey = "account"

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// MiddlewareDB is a struct that holds the database and signing secret used by
// the auth middleware
type MiddlewareDB struct {
	DB     databases.AccountDatabase
	Secret string
}

// IssueToken signs a JWT for the account carrying its current token version.
// Tokens issued before the version bumped stop working on the next request.
func (m MiddlewareDB) IssueToken(account *models.Account) (string, time.Time, error) {
	expiresAt := time.Now().Add(TokenTTL)
	claims := jwt.MapClaims{
		"user_id": account.ID.Hex(),
		"role":    account.Role,
		"tv":      account.TokenVersion,
		"iat":     time.Now().Unix(),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.Secret))
	return signed, expiresAt, err
}

// Protect authenticates the request and, when roles are given, requires the
// account's role to be one of them. The token version inside the JWT is
// revalidated against the stored account so a later login invalidates this
// token.
func (m MiddlewareDB) Protect(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			account, err := m.authenticate(r)
			if err != nil {
				zap.S().Infow("unauthorized",
					"url", r.URL.Path,
					"error", err,
				)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "unauthorized"}`))
				return
			}

			if !account.IsActive {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": "account is deactivated"}`))
				return
			}

			if len(roles) > 0 && !roleAllowed(account.Role, roles) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": "insufficient role"}`))
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m MiddlewareDB) authenticate(r *http.Request) (*models.Account, error) {
	raw, err := extractToken(r)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id claim")
	}

	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()

	account, err := m.DB.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	tv, ok := claims["tv"].(float64)
	if !ok || int(tv) != account.TokenVersion {
		return nil, fmt.Errorf("stale token version")
	}

	return account, nil
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access_token cookie used by the admin console.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), nil
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", fmt.Errorf("missing bearer token")
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// AccountFromContext returns the authenticated account placed by Protect.
func AccountFromContext(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountContextKey).(*models.Account)
	return account
}

// ContextWithAccount attaches an account to the context the same way Protect
// does.
func ContextWithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}
