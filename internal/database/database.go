package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health(ctx context.Context) map[string]string

	// Migrate creates the tables when they do not exist yet.
	Migrate(ctx context.Context) error

	// LoadPhrases returns every phrase of category.
	LoadPhrases(ctx context.Context, category string) ([]string, error)

	// SeedPhrases inserts phrases that are not stored yet and reports how
	// many were added.
	SeedPhrases(ctx context.Context, category string, phrases []string) (int, error)

	// RecordGame archives a finished game and returns its id.
	RecordGame(ctx context.Context, game GameRecord) (int64, error)

	// RecentGames lists the last limit archived games, newest first.
	RecentGames(ctx context.Context, limit int) ([]GameRecord, error)

	// Close terminates the connection pool.
	Close()
}

// GameRecord is one finished game with its final standings.
type GameRecord struct {
	ID              int64             `json:"id"`
	RoomCode        string            `json:"room_code"`
	RoundsPerPlayer int               `json:"rounds_per_player"`
	TurnDuration    int               `json:"turn_duration"`
	TurnsPlayed     int               `json:"turns_played"`
	EndedAt         time.Time         `json:"ended_at"`
	Standings       []internal.Player `json:"standings"`
}

type service struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New opens a connection pool and checks that the database answers.
func New(ctx context.Context, dsn string, log *zap.Logger) (Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &service{pool: pool, log: log.Named("database")}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS phrases (
	id       BIGSERIAL PRIMARY KEY,
	category TEXT NOT NULL,
	phrase   TEXT NOT NULL,
	UNIQUE (category, phrase)
);

CREATE TABLE IF NOT EXISTS games (
	id                BIGSERIAL PRIMARY KEY,
	room_code         TEXT        NOT NULL,
	rounds_per_player INT         NOT NULL,
	turn_duration     INT         NOT NULL,
	turns_played      INT         NOT NULL,
	ended_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS game_players (
	game_id   BIGINT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	placement INT    NOT NULL,
	player_id TEXT   NOT NULL,
	name      TEXT   NOT NULL,
	score     INT    NOT NULL,
	PRIMARY KEY (game_id, player_id)
);
`

func (s *service) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.log.Warn("health check failed", zap.Error(err))
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	ps := s.pool.Stat()
	stats["open_connections"] = strconv.Itoa(int(ps.TotalConns()))
	stats["in_use"] = strconv.Itoa(int(ps.AcquiredConns()))
	stats["idle"] = strconv.Itoa(int(ps.IdleConns()))
	stats["max_connections"] = strconv.Itoa(int(ps.MaxConns()))
	stats["wait_count"] = strconv.FormatInt(ps.EmptyAcquireCount(), 10)
	stats["wait_duration"] = ps.AcquireDuration().String()

	if ps.AcquiredConns() > ps.MaxConns()*4/5 {
		stats["message"] = "The database is experiencing heavy load."
	}
	return stats
}

func (s *service) LoadPhrases(ctx context.Context, category string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT phrase FROM phrases WHERE category = $1 ORDER BY id", category)
	if err != nil {
		return nil, fmt.Errorf("query phrases: %w", err)
	}
	phrases, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan phrases: %w", err)
	}
	return phrases, nil
}

func (s *service) SeedPhrases(ctx context.Context, category string, phrases []string) (int, error) {
	batch := &pgx.Batch{}
	for _, p := range phrases {
		batch.Queue(
			"INSERT INTO phrases (category, phrase) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			category, p)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	added := 0
	for range phrases {
		tag, err := results.Exec()
		if err != nil {
			return added, fmt.Errorf("seed phrases: %w", err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

func (s *service) RecordGame(ctx context.Context, game GameRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO games (room_code, rounds_per_player, turn_duration, turns_played, ended_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		game.RoomCode, game.RoundsPerPlayer, game.TurnDuration, game.TurnsPlayed, game.EndedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}

	rows := make([][]any, 0, len(game.Standings))
	for i, p := range game.Standings {
		rows = append(rows, []any{id, i + 1, p.Id, p.Name, p.Score})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"game_players"},
		[]string{"game_id", "placement", "player_id", "name", "score"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("insert standings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (s *service) RecentGames(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, room_code, rounds_per_player, turn_duration, turns_played, ended_at
		FROM games
		ORDER BY ended_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	games, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (GameRecord, error) {
		var g GameRecord
		err := row.Scan(&g.ID, &g.RoomCode, &g.RoundsPerPlayer, &g.TurnDuration, &g.TurnsPlayed, &g.EndedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan games: %w", err)
	}

	for i := range games {
		standings, err := s.standings(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Standings = standings
	}
	return games, nil
}

func (s *service) standings(ctx context.Context, gameID int64) ([]internal.Player, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id, name, score
		FROM game_players
		WHERE game_id = $1
		ORDER BY placement`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.Player, error) {
		var p internal.Player
		err := row.Scan(&p.Id, &p.Name, &p.Score)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan standings: %w", err)
	}
	return players, nil
}

// Close closes the database connection pool.
func (s *service) Close() {
	s.log.Info("disconnecting from database")
	s.pool.Close()
}
