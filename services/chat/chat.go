package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	historyLimit = 100
	historyTTL   = 24 * time.Hour
)

var ErrInvalidInput = errors.New("invalid input")

// KeyResolver looks up a user's active key for a provider.
type KeyResolver interface {
	ActiveKey(ctx context.Context, userID uint, provider string) (string, error)
}

type Request struct {
	SessionID string `json:"sessionId" binding:"omitempty,max=64"`
	Provider  string `json:"provider" binding:"required,oneof=vercel aws bedrock"`
	Message   string `json:"message" binding:"required,min=1,max=4000"`
}

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

type Reply struct {
	SessionID     string  `json:"sessionId"`
	Message       Message `json:"message"`
	KeyConfigured bool    `json:"keyConfigured"`
}

// Service answers chat messages with a canned assistant reply. Conversation history is
// kept in Redis when a client is configured.
type Service struct {
	keys KeyResolver
	rdb  *redis.Client
	now  func() time.Time
}

func NewService(keys KeyResolver, rdb *redis.Client) *Service {
	return &Service{keys: keys, rdb: rdb, now: time.Now}
}

func SimulatedReply(provider string) string {
	return fmt.Sprintf("This is a simulated response from %s API. In production, this would be connected to your configured API keys.",
		strings.ToUpper(provider))
}

func (s *Service) Send(ctx context.Context, userID uint, req Request) (*Reply, error) {
	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if req.SessionID == "" {
		req.SessionID = utils.GenerateSessionID()
	}

	configured := false
	if s.keys != nil {
		if _, err := s.keys.ActiveKey(ctx, userID, req.Provider); err == nil {
			configured = true
		}
	}

	now := s.now().UTC()
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Content: req.Message, Provider: req.Provider, CreatedAt: now}
	reply := Message{ID: uuid.NewString(), Role: RoleAssistant, Content: SimulatedReply(req.Provider), Provider: req.Provider, CreatedAt: now}

	if err := s.appendHistory(ctx, userID, req.SessionID, userMsg, reply); err != nil {
		return nil, err
	}
	return &Reply{SessionID: req.SessionID, Message: reply, KeyConfigured: configured}, nil
}

// History returns the stored messages of a session, oldest first. Without Redis it is always empty.
func (s *Service) History(ctx context.Context, userID uint, sessionID string) ([]Message, error) {
	out := []Message{}
	if s.rdb == nil {
		return out, nil
	}
	raw, err := s.rdb.LRange(ctx, historyKey(userID, sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	for _, r := range raw {
		var m Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Service) appendHistory(ctx context.Context, userID uint, sessionID string, msgs ...Message) error {
	if s.rdb == nil {
		return nil
	}
	key := historyKey(userID, sessionID)
	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, b)
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -historyLimit, -1)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write chat history: %w", err)
	}
	return nil
}

func historyKey(userID uint, sessionID string) string {
	return fmt.Sprintf("chat:%d:%s", userID, sessionID)
}
