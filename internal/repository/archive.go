package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
)

// ArchiveRepository stores finished games in Postgres.
type ArchiveRepository struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// finishedGameRow is the database representation of models.FinishedGame.
type finishedGameRow struct {
	ID         string          `db:"id"`
	Size       int             `db:"size"`
	Automated  string          `db:"automated"`
	Policy     string          `db:"policy"`
	Black      int             `db:"black"`
	White      int             `db:"white"`
	Winner     string          `db:"winner"`
	Moves      models.MoveList `db:"moves"`
	FinishedAt time.Time       `db:"finished_at"`
}

func newFinishedGameRow(game models.FinishedGame) finishedGameRow {
	return finishedGameRow{
		ID:         game.ID,
		Size:       game.Size,
		Automated:  game.Automated.String(),
		Policy:     game.Policy,
		Black:      game.Black,
		White:      game.White,
		Winner:     game.Winner.String(),
		Moves:      game.Moves,
		FinishedAt: game.FinishedAt,
	}
}

func (row finishedGameRow) model() (models.FinishedGame, error) {
	automated, err := othello.ParsePlayer(row.Automated)
	if err != nil {
		return models.FinishedGame{}, fmt.Errorf("game %s: %w", row.ID, err)
	}

	winner, err := othello.ParsePlayer(row.Winner)
	if err != nil {
		return models.FinishedGame{}, fmt.Errorf("game %s: %w", row.ID, err)
	}

	return models.FinishedGame{
		ID:         row.ID,
		Size:       row.Size,
		Automated:  automated,
		Policy:     row.Policy,
		Black:      row.Black,
		White:      row.White,
		Winner:     winner,
		Moves:      row.Moves,
		FinishedAt: row.FinishedAt,
	}, nil
}

// SaveFinished stores a finished game. Saving the same game twice is a no-op.
func (repo *ArchiveRepository) SaveFinished(ctx context.Context, game models.FinishedGame) error {
	query := `
		INSERT INTO finished_games (id, size, automated, policy, black, white, winner, moves, finished_at)
		VALUES (:id, :size, :automated, :policy, :black, :white, :winner, :moves, :finished_at)
		ON CONFLICT (id) DO NOTHING;
	`

	if _, err := repo.db.NamedExecContext(ctx, query, newFinishedGameRow(game)); err != nil {
		return fmt.Errorf("error saving finished game: %w", err)
	}

	return nil
}

// Stats counts finished games by result.
func (repo *ArchiveRepository) Stats(ctx context.Context) (models.ArchiveStats, error) {
	query := `
		SELECT
			COUNT(*) AS games,
			COUNT(*) FILTER (WHERE winner = 'black') AS black_wins,
			COUNT(*) FILTER (WHERE winner = 'white') AS white_wins,
			COUNT(*) FILTER (WHERE winner = 'none') AS draws
		FROM finished_games;
	`

	var stats models.ArchiveStats
	if err := repo.db.GetContext(ctx, &stats, query); err != nil {
		return models.ArchiveStats{}, fmt.Errorf("error getting archive stats: %w", err)
	}

	return stats, nil
}

// Recent returns the most recently finished games, newest first.
func (repo *ArchiveRepository) Recent(ctx context.Context, limit int) ([]models.FinishedGame, error) {
	query := `
		SELECT id, size, automated, policy, black, white, winner, moves, finished_at
		FROM finished_games
		ORDER BY finished_at DESC
		LIMIT $1;
	`

	var rows []finishedGameRow
	if err := repo.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("error getting recent games: %w", err)
	}

	games := make([]models.FinishedGame, 0, len(rows))
	for _, row := range rows {
		game, err := row.model()
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, nil
}

// MemoryArchiveRepository keeps finished games in memory.
type MemoryArchiveRepository struct {
	// games maps game ID to finished game
	games map[string]models.FinishedGame

	// gamesMutex protects games
	gamesMutex sync.Mutex
}

func NewMemoryArchiveRepository() *MemoryArchiveRepository {
	return &MemoryArchiveRepository{
		games: make(map[string]models.FinishedGame),
	}
}

func (repo *MemoryArchiveRepository) SaveFinished(_ context.Context, game models.FinishedGame) error {
	repo.gamesMutex.Lock()
	defer repo.gamesMutex.Unlock()

	if _, ok := repo.games[game.ID]; !ok {
		repo.games[game.ID] = game
	}

	return nil
}

func (repo *MemoryArchiveRepository) Stats(_ context.Context) (models.ArchiveStats, error) {
	repo.gamesMutex.Lock()
	defer repo.gamesMutex.Unlock()

	stats := models.ArchiveStats{Games: len(repo.games)}
	for _, game := range repo.games {
		switch game.Winner {
		case othello.Black:
			stats.BlackWins++
		case othello.White:
			stats.WhiteWins++
		default:
			stats.Draws++
		}
	}

	return stats, nil
}

func (repo *MemoryArchiveRepository) Recent(_ context.Context, limit int) ([]models.FinishedGame, error) {
	repo.gamesMutex.Lock()
	defer repo.gamesMutex.Unlock()

	games := make([]models.FinishedGame, 0, len(repo.games))
	for _, game := range repo.games {
		games = append(games, game)
	}

	// Sort such that the most recently finished games are first
	sort.Slice(games, func(i, j int) bool {
		return games[i].FinishedAt.After(games[j].FinishedAt)
	})

	if limit >= 0 && len(games) > limit {
		games = games[:limit]
	}

	return games, nil
}
