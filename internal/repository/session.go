package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	gameKeyPrefix = "reversi:game:"
)

var (
	ErrGameNotFound = errors.New("game not found")

	// ErrVersionConflict is returned when a snapshot was saved by someone
	// else since it was loaded.
	ErrVersionConflict = errors.New("game was changed by another request, try again")
)

func gameKey(id string) string {
	return gameKeyPrefix + id
}

// SessionRepository stores live game snapshots in Redis.
type SessionRepository struct {
	redis *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{redis: client}
}

// Save stores a snapshot and resets its TTL. The stored version must be one
// below snapshot.Version, or absent when snapshot.Version is 1.
func (repo *SessionRepository) Save(ctx context.Context, snapshot models.Snapshot, ttl time.Duration) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	key := gameKey(snapshot.ID)

	err = repo.redis.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()

		storedVersion := 0
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("error getting snapshot: %w", err)
		default:
			var current models.Snapshot
			if err = json.Unmarshal(stored, &current); err != nil {
				return fmt.Errorf("error unmarshaling snapshot: %w", err)
			}
			storedVersion = current.Version
		}

		if storedVersion != snapshot.Version-1 {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}

	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("error storing snapshot: %w", err)
	}

	return nil
}

// Load retrieves a snapshot.
func (repo *SessionRepository) Load(ctx context.Context, id string) (models.Snapshot, error) {
	jsonData, err := repo.redis.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Snapshot{}, ErrGameNotFound
	}

	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error getting snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal(jsonData, &snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("error unmarshaling snapshot: %w", err)
	}

	return snapshot, nil
}

// Delete removes a snapshot.
func (repo *SessionRepository) Delete(ctx context.Context, id string) error {
	deleted, err := repo.redis.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("error deleting snapshot: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

// MemorySessionRepository keeps snapshots in memory, for tests.
type MemorySessionRepository struct {
	// data maps game ID to snapshot
	data map[string]memorySnapshot

	// dataMutex protects data
	dataMutex sync.Mutex

	// now returns the current time, tests replace it
	now func() time.Time
}

type memorySnapshot struct {
	snapshot  models.Snapshot
	expiresAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		data: make(map[string]memorySnapshot),
		now:  time.Now,
	}
}

// SetClock replaces the time source used for expiry.
func (repo *MemorySessionRepository) SetClock(now func() time.Time) {
	repo.dataMutex.Lock()
	defer repo.dataMutex.Unlock()

	repo.now = now
}

func (repo *MemorySessionRepository) Save(_ context.Context, snapshot models.Snapshot, ttl time.Duration) error {
	repo.dataMutex.Lock()
	defer repo.dataMutex.Unlock()

	storedVersion := 0
	if stored, ok := repo.data[snapshot.ID]; ok && repo.now().Before(stored.expiresAt) {
		storedVersion = stored.snapshot.Version
	}

	if storedVersion != snapshot.Version-1 {
		return ErrVersionConflict
	}

	repo.data[snapshot.ID] = memorySnapshot{
		snapshot:  snapshot,
		expiresAt: repo.now().Add(ttl),
	}

	return nil
}

func (repo *MemorySessionRepository) Load(_ context.Context, id string) (models.Snapshot, error) {
	repo.dataMutex.Lock()
	defer repo.dataMutex.Unlock()

	stored, ok := repo.data[id]
	if !ok {
		return models.Snapshot{}, ErrGameNotFound
	}

	if !repo.now().Before(stored.expiresAt) {
		delete(repo.data, id)
		return models.Snapshot{}, ErrGameNotFound
	}

	return stored.snapshot, nil
}

func (repo *MemorySessionRepository) Delete(_ context.Context, id string) error {
	repo.dataMutex.Lock()
	defer repo.dataMutex.Unlock()

	if _, ok := repo.data[id]; !ok {
		return ErrGameNotFound
	}

	delete(repo.data, id)
	return nil
}
