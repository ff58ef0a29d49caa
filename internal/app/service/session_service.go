package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"github.com/PeterSayer/CottageChooser/pkg/redis"
	"github.com/PeterSayer/CottageChooser/pkg/token"
)

var (
	ErrBadGroupCode = errors.New("wrong group code")
	ErrBadUserName  = errors.New("invalid display name")
)

// Session is an issued membership.
type Session struct {
	UserName string `json:"user_name"`
	Token    string `json:"token"`
	IsAdmin  bool   `json:"is_admin"`
}

type SessionService interface {
	Join(userName, groupCode string) (*Session, error)
	Leave(ctx context.Context, tokenString string) error
	IsAdmin(userName string) bool
}

type sessionService struct {
	session *config.SessionConfig
	group   *config.GroupConfig
	policy  *authz.Policy
}

func NewSessionService(session *config.SessionConfig, group *config.GroupConfig, policy *authz.Policy) SessionService {
	return &sessionService{
		session: session,
		group:   group,
		policy:  policy,
	}
}

// Join admits a member who knows the shared group code and issues a
// session token. Names keep their display form; comparisons elsewhere
// are normalized.
func (s *sessionService) Join(userName, groupCode string) (*Session, error) {
	name := strings.TrimSpace(userName)

	logger.Info("Member joining group", map[string]interface{}{
		"user_name": name,
	})

	if name == "" || len(name) > 100 {
		logger.Warn("Join rejected: invalid display name", nil)
		return nil, ErrBadUserName
	}

	if authz.Normalize(groupCode) != authz.Normalize(s.group.Code) {
		logger.Warn("Join rejected: wrong group code", map[string]interface{}{
			"user_name": name,
		})
		return nil, ErrBadGroupCode
	}

	tok, err := token.Generate(name, s.session.Secret, s.session.TTL)
	if err != nil {
		logger.Error("Failed to issue session token", err, map[string]interface{}{
			"user_name": name,
		})
		return nil, err
	}

	logger.Info("Member joined group", map[string]interface{}{
		"user_name": name,
		"is_admin":  s.policy.IsAdmin(name),
	})

	return &Session{
		UserName: name,
		Token:    tok,
		IsAdmin:  s.policy.IsAdmin(name),
	}, nil
}

// Leave revokes the presented token. Without a revocation store the
// token simply rides out its TTL.
func (s *sessionService) Leave(ctx context.Context, tokenString string) error {
	logger.Info("Member leaving group", nil)

	if !redis.Enabled() {
		logger.Debug("No revocation store, leave is client-side only", nil)
		return nil
	}

	claims, err := token.Validate(tokenString, s.session.Secret)
	if err != nil {
		// Expired or invalid tokens need no revocation.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return redis.RevokeToken(ctx, tokenString, ttl)
}

func (s *sessionService) IsAdmin(userName string) bool {
	return s.policy.IsAdmin(userName)
}
