package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/deeppurple/emotion-engine/config"
	"github.com/deeppurple/emotion-engine/internal/models"
)

// Analyzed communications keep their cache entry for a day, like the
// processed-content sets this pattern comes from.
const analysisCacheTTL = int64(86400)

// ValkeyClient caches analyzed communications keyed by a content hash so
// re-submitting identical content does not re-run the provider fan-out.
type ValkeyClient struct {
	client valkey.Client
}

func InitValkey(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Addr},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return &ValkeyClient{client: client}, nil
}

func (vc *ValkeyClient) Close() {
	vc.client.Close()
}

func (vc *ValkeyClient) CacheCommunication(ctx context.Context, key string, comm models.Communication) error {
	data, err := json.Marshal(comm)
	if err != nil {
		return err
	}

	cmd := vc.client.B().Set().Key(key).Value(string(data)).ExSeconds(analysisCacheTTL).Build()
	if err := vc.doWithRetry(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] failed to cache communication: %w", err)
	}
	return nil
}

// GetCachedCommunication returns the cached entry for key, or false when
// the key is absent or the cache is unreachable. Cache failures never
// fail a request.
func (vc *ValkeyClient) GetCachedCommunication(ctx context.Context, key string) (models.Communication, bool) {
	var comm models.Communication

	res := vc.doWithRetry(ctx, vc.client.B().Get().Key(key).Build())
	if res.Error() != nil {
		return comm, false
	}

	data, err := res.AsBytes()
	if err != nil {
		return comm, false
	}
	if err := json.Unmarshal(data, &comm); err != nil {
		slog.Warn("[ValkeyClient] Discarding unreadable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return comm, false
	}

	return comm, true
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, cmd valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult

	backoff := INITIAL_BACKOFF
	for i := 0; i < MAX_RETRIES; i++ {
		result = vc.client.Do(ctx, cmd)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] command failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(backoff)
		backoff *= 2
	}

	return result
}
