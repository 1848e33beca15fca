package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/repository"
)

// recentGamesLimit is the number of finished games returned by Stats.
const recentGamesLimit = 10

var (
	// ErrGameNotFound is returned for unknown or expired game IDs.
	ErrGameNotFound = repository.ErrGameNotFound

	// ErrVersionConflict is returned when another process changed the game
	// while a request was being handled.
	ErrVersionConflict = repository.ErrVersionConflict
)

// Store persists snapshots of live games. Save must reject a snapshot whose
// version is not one above the stored version with ErrVersionConflict.
type Store interface {
	Save(ctx context.Context, snapshot models.Snapshot, ttl time.Duration) error
	Load(ctx context.Context, id string) (models.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// Archive persists finished games.
type Archive interface {
	SaveFinished(ctx context.Context, game models.FinishedGame) error
	Stats(ctx context.Context) (models.ArchiveStats, error)
	Recent(ctx context.Context, limit int) ([]models.FinishedGame, error)
}

// Manager owns the live games of the server. Every game has its own lock, so
// requests for different games do not block each other.
type Manager struct {
	store   Store
	archive Archive

	// ttl is how long an untouched game is kept
	ttl time.Duration

	// games maps game ID to a loaded game
	games map[string]*entry

	// gamesMutex protects games
	gamesMutex sync.Mutex

	now   func() time.Time
	newID func() string
	seed  func() int64
}

type entry struct {
	mutex    sync.Mutex
	snapshot models.Snapshot
	game     *othello.Game
	lastUsed time.Time
}

func NewManager(store Store, archive Archive, ttl time.Duration) *Manager {
	return &Manager{
		store:   store,
		archive: archive,
		ttl:     ttl,
		games:   make(map[string]*entry),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

// Create starts a new game. If the automated side moves first, its moves are
// played before returning.
func (m *Manager) Create(ctx context.Context, settings models.GameSettings) (models.GameResponse, error) {
	if err := settings.Validate(); err != nil {
		return models.GameResponse{}, err
	}

	config, err := settings.GameConfig(m.seed())
	if err != nil {
		return models.GameResponse{}, err
	}

	game, err := othello.NewGame(config)
	if err != nil {
		return models.GameResponse{}, err
	}

	transitions, err := game.RunAutomated()
	if err != nil {
		return models.GameResponse{}, err
	}

	now := m.now()
	e := &entry{lastUsed: now}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	snapshot := models.Snapshot{
		ID:        m.newID(),
		Settings:  settings,
		CreatedAt: now,
	}

	if err = m.commit(ctx, e, snapshot, game); err != nil {
		return models.GameResponse{}, err
	}

	m.gamesMutex.Lock()
	m.games[e.snapshot.ID] = e
	m.gamesMutex.Unlock()

	slog.Info("Created game", "id", e.snapshot.ID, "size", settings.Size, "automated", settings.Automated)

	return models.NewGameResponse(e.snapshot.ID, game, transitions), nil
}

// Get returns the current view of a game.
func (m *Manager) Get(ctx context.Context, id string) (models.GameResponse, error) {
	e, err := m.lockEntry(ctx, id)
	if err != nil {
		return models.GameResponse{}, err
	}
	defer e.mutex.Unlock()

	m.archiveFinished(ctx, e)

	return models.NewGameResponse(id, e.game, nil), nil
}

// Activate plays a move for the human side, followed by any automated replies.
func (m *Manager) Activate(ctx context.Context, id string, move othello.Move) (models.GameResponse, error) {
	return m.update(ctx, id, func(game *othello.Game) ([]othello.Transition, error) {
		transition, err := game.ActivateCell(move.Row, move.Col)
		if err != nil {
			return nil, err
		}

		automated, err := game.RunAutomated()
		return append([]othello.Transition{transition}, automated...), err
	})
}

// Reset re-seeds the board of a game.
func (m *Manager) Reset(ctx context.Context, id string) (models.GameResponse, error) {
	return m.update(ctx, id, func(game *othello.Game) ([]othello.Transition, error) {
		game.Reset()
		return game.RunAutomated()
	})
}

// Undo takes back the last human move and the automated replies to it.
func (m *Manager) Undo(ctx context.Context, id string) (models.GameResponse, error) {
	return m.update(ctx, id, func(game *othello.Game) ([]othello.Transition, error) {
		if !game.Undo() {
			return nil, nil
		}
		return game.RunAutomated()
	})
}

// Delete removes a game. It waits for requests that are using the game.
func (m *Manager) Delete(ctx context.Context, id string) error {
	e := m.cachedEntry(id)

	e.mutex.Lock()
	defer e.mutex.Unlock()

	m.forget(id, e)

	return m.store.Delete(ctx, id)
}

// LiveGames returns the number of games loaded in memory.
func (m *Manager) LiveGames() int {
	m.gamesMutex.Lock()
	defer m.gamesMutex.Unlock()

	return len(m.games)
}

// Stats summarizes the archive and the live games.
func (m *Manager) Stats(ctx context.Context) (models.StatsResponse, error) {
	archiveStats, err := m.archive.Stats(ctx)
	if err != nil {
		return models.StatsResponse{}, err
	}

	recent, err := m.archive.Recent(ctx, recentGamesLimit)
	if err != nil {
		return models.StatsResponse{}, err
	}

	return models.StatsResponse{
		Archive:     archiveStats,
		LiveGames:   m.LiveGames(),
		RecentGames: recent,
	}, nil
}

// EvictIdle drops games from memory that were not used within the TTL. They
// can still be loaded from the store until it expires them.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.ttl)

	m.gamesMutex.Lock()
	defer m.gamesMutex.Unlock()

	evicted := 0
	for id, e := range m.games {
		if !e.mutex.TryLock() {
			// In use, so not idle
			continue
		}

		if e.lastUsed.Before(cutoff) {
			delete(m.games, id)
			evicted++
		}

		e.mutex.Unlock()
	}

	return evicted
}

// RunJanitor calls EvictIdle every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if evicted := m.EvictIdle(); evicted > 0 {
				slog.Debug("Evicted idle games", "count", evicted, "live", m.LiveGames())
			}
		}
	}
}

func (m *Manager) update(
	ctx context.Context,
	id string,
	mutate func(game *othello.Game) ([]othello.Transition, error),
) (models.GameResponse, error) {
	e, err := m.lockEntry(ctx, id)
	if err != nil {
		return models.GameResponse{}, err
	}
	defer e.mutex.Unlock()

	// Changes are made on a copy, so a failed save leaves e untouched.
	game := e.game.Clone()

	transitions, err := mutate(game)
	if err != nil {
		if len(transitions) == 0 {
			return models.GameResponse{}, err
		}

		// The human move was accepted but a policy failed, keep what was played.
		slog.Error("Automated move failed", "id", id, "error", err)
	}

	if err = m.commit(ctx, e, e.snapshot, game); err != nil {
		return models.GameResponse{}, err
	}

	m.archiveFinished(ctx, e)

	return models.NewGameResponse(id, e.game, transitions), nil
}

// cachedEntry returns the entry of a game, adding an unloaded one if needed.
func (m *Manager) cachedEntry(id string) *entry {
	m.gamesMutex.Lock()
	defer m.gamesMutex.Unlock()

	e, ok := m.games[id]
	if !ok {
		e = &entry{}
		m.games[id] = e
	}

	return e
}

// forget removes e from the cache, unless it was already replaced.
func (m *Manager) forget(id string, e *entry) {
	m.gamesMutex.Lock()
	defer m.gamesMutex.Unlock()

	if m.games[id] == e {
		delete(m.games, id)
	}
}

// lockEntry returns the locked entry of a game. The snapshot is always read
// from the store, so changes made by other processes sharing the store are
// picked up. The game is only replayed when the version changed.
func (m *Manager) lockEntry(ctx context.Context, id string) (*entry, error) {
	e := m.cachedEntry(id)
	e.mutex.Lock()

	snapshot, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) || e.game == nil {
			m.forget(id, e)
		}
		e.mutex.Unlock()
		return nil, err
	}

	if e.game == nil || snapshot.Version != e.snapshot.Version {
		game, err := snapshot.Game(m.seed())
		if err != nil {
			m.forget(id, e)
			e.mutex.Unlock()
			return nil, err
		}
		e.game = game
	}

	e.snapshot = snapshot
	e.lastUsed = m.now()
	return e, nil
}

// commit saves game as the next version of snapshot and, only if that
// succeeds, makes it the state of e. The caller must hold the lock of e.
func (m *Manager) commit(ctx context.Context, e *entry, snapshot models.Snapshot, game *othello.Game) error {
	snapshot.Moves = models.MoveList(game.Moves())
	snapshot.UpdatedAt = m.now()
	snapshot.Version++

	if _, over := game.Outcome(); over {
		if snapshot.ArchiveID == "" {
			snapshot.ArchiveID = m.newID()
		}
	} else {
		// A reset or undo reopens the game, its next ending is archived again.
		snapshot.ArchiveID = ""
		snapshot.Archived = false
	}

	if err := m.store.Save(ctx, snapshot, m.ttl); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to save game %s: %w", snapshot.ID, err)
	}

	e.snapshot = snapshot
	e.game = game
	return nil
}

// archiveFinished writes a finished game to the archive if that has not
// happened yet. Failures are logged and retried on the next request for the
// game. The caller must hold the lock of e.
func (m *Manager) archiveFinished(ctx context.Context, e *entry) {
	if e.snapshot.Archived || e.snapshot.ArchiveID == "" {
		return
	}

	finished, err := models.NewFinishedGame(e.snapshot.ArchiveID, e.snapshot.Settings, e.game, e.snapshot.UpdatedAt)
	if err != nil {
		slog.Error("Failed to archive game", "id", e.snapshot.ID, "error", err)
		return
	}

	if err = m.archive.SaveFinished(ctx, finished); err != nil {
		slog.Error("Failed to archive game", "id", e.snapshot.ID, "error", err)
		return
	}

	snapshot := e.snapshot
	snapshot.Archived = true

	if err = m.commit(ctx, e, snapshot, e.game); err != nil {
		// The archive ignores duplicate IDs, so archiving again later is harmless.
		slog.Warn("Failed to mark game as archived", "id", e.snapshot.ID, "error", err)
		return
	}

	slog.Info("Archived game", "id", e.snapshot.ID, "winner", finished.Winner, "black", finished.Black, "white", finished.White)
}
