package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	flashCookieName = "flash_id"
	flashTTL        = 10 * time.Minute
)

// flashIDKey is the gin context key holding an id minted during the
// current request, so a flash added and rendered in the same request is
// visible before the browser ever sends the cookie back.
const flashIDKey = "flashID"

// Flash is a one-time notice rendered on the next page view.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// FlashStore keeps pending flash messages in Redis, keyed by a random
// per-browser id carried in its own cookie. Messages survive the
// redirect that usually follows a POST and are consumed on first read.
type FlashStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewFlashStore(rdb *redis.Client, logger *zap.Logger) *FlashStore {
	return &FlashStore{rdb: rdb, logger: logger}
}

// Add queues a flash message for the requesting browser.
func (s *FlashStore) Add(c *gin.Context, level, message string) {
	id := s.flashID(c)
	if id == "" {
		return
	}
	payload, err := json.Marshal(Flash{Level: level, Message: message})
	if err != nil {
		return
	}

	ctx := c.Request.Context()
	key := flashKey(id)
	if err := s.rdb.RPush(ctx, key, payload).Err(); err != nil {
		s.logger.Warn("Failed to queue flash message", zap.Error(err))
		return
	}
	s.rdb.Expire(ctx, key, flashTTL)
}

// Pop returns and clears all pending flash messages for the requesting
// browser. Flash delivery is best-effort: a Redis failure drops the
// notice rather than failing the page.
func (s *FlashStore) Pop(c *gin.Context) []Flash {
	id := currentFlashID(c)
	if id == "" {
		return nil
	}

	ctx := c.Request.Context()
	key := flashKey(id)
	raw, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil
	}
	s.rdb.Del(ctx, key)

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes
}

// Ping checks the Redis backend, used by the readiness probe.
func (s *FlashStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// flashID returns the browser's flash id, minting one on first use.
func (s *FlashStore) flashID(c *gin.Context) string {
	if id := currentFlashID(c); id != "" {
		return id
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		s.logger.Warn("Failed to mint flash id", zap.Error(err))
		return ""
	}
	id := hex.EncodeToString(buf)
	c.SetCookie(flashCookieName, id, int(flashTTL.Seconds()), "/", "", false, true)
	c.Set(flashIDKey, id)
	return id
}

// currentFlashID resolves the flash id for this request: an id minted
// earlier in the same request wins over the cookie the browser sent.
func currentFlashID(c *gin.Context) string {
	if id, ok := c.Get(flashIDKey); ok {
		return id.(string)
	}
	if id, err := c.Cookie(flashCookieName); err == nil && id != "" {
		return id
	}
	return ""
}

func flashKey(id string) string {
	return fmt.Sprintf("flash:%s", id)
}
