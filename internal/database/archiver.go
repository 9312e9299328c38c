package database

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal/events"
)

const archiveTimeout = 5 * time.Second

// Archiver is an events.Publisher that stores every finished game. Writes
// run in their own goroutine so publishing never waits on the database.
type Archiver struct {
	db  Service
	log *zap.Logger
	wg  sync.WaitGroup
}

func NewArchiver(db Service, log *zap.Logger) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{db: db, log: log.Named("archiver")}
}

func (a *Archiver) Publish(_ context.Context, ev events.Event) {
	if ev.Type != events.GameEnded {
		return
	}
	summary, ok := ev.Data.(events.GameSummary)
	if !ok {
		a.log.Warn("game ended without summary", zap.String("room", ev.Room))
		return
	}

	record := GameRecord{
		RoomCode:        ev.Room,
		RoundsPerPlayer: summary.RoundsPerPlayer,
		TurnDuration:    summary.TurnDuration,
		TurnsPlayed:     summary.TurnsPlayed,
		EndedAt:         ev.At,
		Standings:       summary.Standings,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		id, err := a.db.RecordGame(ctx, record)
		if err != nil {
			a.log.Error("archive game", zap.String("room", record.RoomCode), zap.Error(err))
			return
		}
		a.log.Debug("game archived", zap.String("room", record.RoomCode), zap.Int64("id", id))
	}()
}

// Wait blocks until every pending write finished.
func (a *Archiver) Wait() {
	a.wg.Wait()
}
