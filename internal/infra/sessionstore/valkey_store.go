package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
)

// ValkeyStore persists onboarding sessions as JSON values with a TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a session store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "briefing"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Save writes the session as JSON and refreshes its ttl.
func (s *ValkeyStore) Save(ctx context.Context, session onboarding.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	builder := s.client.B().Set().Key(s.key(session.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Get loads a session; an expired or unknown id reports found=false.
func (s *ValkeyStore) Get(ctx context.Context, id string) (onboarding.Session, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return onboarding.Session{}, false, nil
		}
		return onboarding.Session{}, false, err
	}
	var session onboarding.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return onboarding.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return session, true, nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error()
}

func (s *ValkeyStore) key(id string) string {
	return s.prefix + ":onboarding:" + id
}

var _ onboarding.SessionStore = (*ValkeyStore)(nil)
