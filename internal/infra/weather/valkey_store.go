package weather

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

// ValkeyStore caches readings in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store; keys are namespaced by prefix.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

type storedReading struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
	WindSpeed   *float64 `json:"windspeed,omitempty"`
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (irrigation.Conditions, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return irrigation.Conditions{}, false, nil
		}
		return irrigation.Conditions{}, false, err
	}
	var r storedReading
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return irrigation.Conditions{}, false, err
	}
	return irrigation.Conditions{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Rainfall:    r.Rainfall,
		WindSpeed:   r.WindSpeed,
	}, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, reading irrigation.Conditions, ttl time.Duration) error {
	payload, err := json.Marshal(storedReading{
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Rainfall:    reading.Rainfall,
		WindSpeed:   reading.WindSpeed,
	})
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(key)).Value(string(payload))
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

func (s *ValkeyStore) key(k string) string {
	return s.prefix + ":" + k
}

var _ Store = (*ValkeyStore)(nil)
