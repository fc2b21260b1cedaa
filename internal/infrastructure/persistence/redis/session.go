package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Session 登录会话，存在Redis Hash中
type Session struct {
	UserID  uint   `redis:"user_id"`
	Email   string `redis:"email"`
	Role    string `redis:"role"`
	IP      string `redis:"ip"`
	LoginAt int64  `redis:"login_at"`
}

// SessionStore 会话与Token黑名单
// Key：session:{user_id}、blacklist:{token}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveSession 覆盖同一用户的旧会话，ttl与Refresh Token有效期一致
func (s *SessionStore) SaveSession(ctx context.Context, sess Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, sess)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// GetSession 会话不存在（未登录或已登出）返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (*Session, error) {
	cmd := s.client.HGetAll(ctx, sessionKey(userID))
	if err := cmd.Err(); err != nil {
		return nil, apperrors.ErrRedisError.WithErr(err)
	}
	if len(cmd.Val()) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	var sess Session
	if err := cmd.Scan(&sess); err != nil {
		return nil, apperrors.ErrRedisError.WithErr(err)
	}
	return &sess, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// AddToBlacklist 登出后Access Token在剩余有效期内不可再用
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithErr(err)
	}
	return exists > 0, nil
}
