package matchimportservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

// ------------------------
// Fake Match Import Repo
// ------------------------

type FakeMatchImportRepo struct {
	trace []string

	GetMatchFunc           func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error)
	ListMatchesFunc        func(ctx context.Context, db bun.IDB, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error)
	UpsertMatchFunc        func(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error
	DeleteMatchFunc        func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	GetPlayerStatsFunc     func(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]matchimportdomain.PlayerStat, error)
	GetPlayerStatFunc      func(ctx context.Context, db bun.IDB, playerID string, matchID uuid.UUID) (*matchimportdomain.PlayerStat, error)
	InsertPlayerStatFunc   func(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error
	UpdatePlayerStatFunc   func(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error
	DeletePlayerStatsFunc  func(ctx context.Context, db bun.IDB, matchID uuid.UUID) (int, error)
	InsertPlayerStatsFunc  func(ctx context.Context, db bun.IDB, stats []matchimportdomain.PlayerStat) error
	ListActivePlayersFunc  func(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error)
	InsertHistoryFunc      func(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error
	GetHistoryFunc         func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error)
	ListHistoryFunc        func(ctx context.Context, db bun.IDB, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error)
	DeleteHistoryFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ResolveCompetitionFunc func(ctx context.Context, db bun.IDB, alias string) (string, error)
}

func NewFakeMatchImportRepo() *FakeMatchImportRepo {
	return &FakeMatchImportRepo{
		trace: []string{},
	}
}

func (f *FakeMatchImportRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeMatchImportRepo) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, db, id)
	}
	return nil, matchimportdb.ErrNotFound
}

func (f *FakeMatchImportRepo) ListMatches(ctx context.Context, db bun.IDB, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error) {
	f.record("ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeMatchImportRepo) UpsertMatch(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error {
	f.record("UpsertMatch")
	if f.UpsertMatchFunc != nil {
		return f.UpsertMatchFunc(ctx, db, match)
	}
	return nil
}

func (f *FakeMatchImportRepo) DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteMatch")
	if f.DeleteMatchFunc != nil {
		return f.DeleteMatchFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeMatchImportRepo) GetPlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]matchimportdomain.PlayerStat, error) {
	f.record("GetPlayerStats")
	if f.GetPlayerStatsFunc != nil {
		return f.GetPlayerStatsFunc(ctx, db, matchID)
	}
	return nil, nil
}

func (f *FakeMatchImportRepo) GetPlayerStat(ctx context.Context, db bun.IDB, playerID string, matchID uuid.UUID) (*matchimportdomain.PlayerStat, error) {
	f.record("GetPlayerStat")
	if f.GetPlayerStatFunc != nil {
		return f.GetPlayerStatFunc(ctx, db, playerID, matchID)
	}
	return nil, matchimportdb.ErrNotFound
}

func (f *FakeMatchImportRepo) InsertPlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
	f.record("InsertPlayerStat")
	if f.InsertPlayerStatFunc != nil {
		return f.InsertPlayerStatFunc(ctx, db, stat)
	}
	return nil
}

func (f *FakeMatchImportRepo) UpdatePlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
	f.record("UpdatePlayerStat")
	if f.UpdatePlayerStatFunc != nil {
		return f.UpdatePlayerStatFunc(ctx, db, stat)
	}
	return nil
}

func (f *FakeMatchImportRepo) DeletePlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) (int, error) {
	f.record("DeletePlayerStats")
	if f.DeletePlayerStatsFunc != nil {
		return f.DeletePlayerStatsFunc(ctx, db, matchID)
	}
	return 0, nil
}

func (f *FakeMatchImportRepo) InsertPlayerStats(ctx context.Context, db bun.IDB, stats []matchimportdomain.PlayerStat) error {
	f.record("InsertPlayerStats")
	if f.InsertPlayerStatsFunc != nil {
		return f.InsertPlayerStatsFunc(ctx, db, stats)
	}
	return nil
}

func (f *FakeMatchImportRepo) ListActivePlayers(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error) {
	f.record("ListActivePlayers")
	if f.ListActivePlayersFunc != nil {
		return f.ListActivePlayersFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeMatchImportRepo) InsertHistory(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error {
	f.record("InsertHistory")
	if f.InsertHistoryFunc != nil {
		return f.InsertHistoryFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeMatchImportRepo) GetHistory(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
	f.record("GetHistory")
	if f.GetHistoryFunc != nil {
		return f.GetHistoryFunc(ctx, db, id)
	}
	return nil, matchimportdb.ErrNotFound
}

func (f *FakeMatchImportRepo) ListHistory(ctx context.Context, db bun.IDB, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
	f.record("ListHistory")
	if f.ListHistoryFunc != nil {
		return f.ListHistoryFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeMatchImportRepo) DeleteHistory(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteHistory")
	if f.DeleteHistoryFunc != nil {
		return f.DeleteHistoryFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeMatchImportRepo) ResolveCompetition(ctx context.Context, db bun.IDB, alias string) (string, error) {
	f.record("ResolveCompetition")
	if f.ResolveCompetitionFunc != nil {
		return f.ResolveCompetitionFunc(ctx, db, alias)
	}
	return "", matchimportdb.ErrNotFound
}

// --- Accessors for assertions ---

func (f *FakeMatchImportRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ matchimportdb.Repository = (*FakeMatchImportRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	published map[string][]*message.Message
	PublishFn func(topic string, msgs ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.PublishFn != nil {
		if err := p.PublishFn(topic, msgs...); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[topic] = append(p.published[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Messages(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*message.Message(nil), p.published[topic]...)
}

var _ message.Publisher = (*FakePublisher)(nil)
