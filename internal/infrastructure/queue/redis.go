package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"dropzone/internal/domain/entities"
)

// RedisReleaser hands chunk-release work to the worker process via a
// Redis list, keeping storage deletion off the request path.
type RedisReleaser struct {
	rdb *redis.Client
}

func NewRedisReleaser(rdb *redis.Client) *RedisReleaser {
	return &RedisReleaser{rdb: rdb}
}

func (r *RedisReleaser) Release(ctx context.Context, sessionID string) error {
	serialized, err := SerializeJob(Job{Type: JobReleaseChunks, SessionID: sessionID})
	if err != nil {
		return err
	}
	if err := r.rdb.LPush(ctx, ReleaseQueue, serialized).Err(); err != nil {
		return fmt.Errorf("could not enqueue release job: %w", err)
	}
	return nil
}

// DeleteObject enqueues removal of a finalized object.
func (r *RedisReleaser) DeleteObject(ctx context.Context, objectKey string) error {
	serialized, err := SerializeJob(Job{Type: JobDeleteObject, ObjectKey: objectKey})
	if err != nil {
		return err
	}
	if err := r.rdb.LPush(ctx, ReleaseQueue, serialized).Err(); err != nil {
		return fmt.Errorf("could not enqueue delete job: %w", err)
	}
	return nil
}

// RedisEventPublisher fans upload events out over pub/sub.
type RedisEventPublisher struct {
	rdb *redis.Client
}

func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{rdb: rdb}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event entities.UploadEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event: %w", err)
	}
	return p.rdb.Publish(ctx, EventsChannel, payload).Err()
}

// Consume drains the release queue into the pool until ctx is cancelled.
func Consume(ctx context.Context, rdb *redis.Client, pool *WorkerPool) error {
	for {
		val, err := rdb.BRPop(ctx, 0, ReleaseQueue).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("brpop failed: %w", err)
		}
		job, err := DeserializeJob(val[1])
		if err != nil {
			slog.Error("dropping malformed queue payload", "payload", val[1], "error", err)
			continue
		}
		pool.AddJob(*job)
	}
}
