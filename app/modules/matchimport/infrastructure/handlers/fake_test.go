package matchimporthandlers

import (
	"context"

	"github.com/google/uuid"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	ValidateFunc      func(ctx context.Context, req matchimportservice.ValidateRequest) (*matchimportservice.ValidateResult, error)
	PreviewFunc       func(ctx context.Context, req matchimportservice.PreviewRequest) (*matchimportservice.PreviewResult, error)
	CommitFunc        func(ctx context.Context, req matchimportservice.CommitRequest) (*matchimportservice.CommitResult, error)
	RollbackFunc      func(ctx context.Context, historyID uuid.UUID) (*matchimportservice.RollbackResult, error)
	ListHistoryFunc   func(ctx context.Context, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error)
	GetHistoryFunc    func(ctx context.Context, historyID uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error)
	SearchPlayersFunc func(ctx context.Context, query string, limit int) ([]matchimportdomain.Player, error)
	ListMatchesFunc   func(ctx context.Context, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error)
	GetMatchFunc      func(ctx context.Context, matchID uuid.UUID) (*matchimportservice.MatchView, error)

	calls []string
}

func (f *FakeService) Calls() []string { return f.calls }

func (f *FakeService) Validate(ctx context.Context, req matchimportservice.ValidateRequest) (*matchimportservice.ValidateResult, error) {
	f.calls = append(f.calls, "Validate")
	if f.ValidateFunc != nil {
		return f.ValidateFunc(ctx, req)
	}
	return &matchimportservice.ValidateResult{State: matchimportdomain.StateValid}, nil
}

func (f *FakeService) Preview(ctx context.Context, req matchimportservice.PreviewRequest) (*matchimportservice.PreviewResult, error) {
	f.calls = append(f.calls, "Preview")
	if f.PreviewFunc != nil {
		return f.PreviewFunc(ctx, req)
	}
	return &matchimportservice.PreviewResult{State: matchimportdomain.StatePreview, Rows: []matchimportdomain.PreviewRow{}}, nil
}

func (f *FakeService) Commit(ctx context.Context, req matchimportservice.CommitRequest) (*matchimportservice.CommitResult, error) {
	f.calls = append(f.calls, "Commit")
	if f.CommitFunc != nil {
		return f.CommitFunc(ctx, req)
	}
	return &matchimportservice.CommitResult{State: matchimportdomain.StateCommitted}, nil
}

func (f *FakeService) Rollback(ctx context.Context, historyID uuid.UUID) (*matchimportservice.RollbackResult, error) {
	f.calls = append(f.calls, "Rollback")
	if f.RollbackFunc != nil {
		return f.RollbackFunc(ctx, historyID)
	}
	return &matchimportservice.RollbackResult{HistoryID: historyID}, nil
}

func (f *FakeService) ListHistory(ctx context.Context, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
	f.calls = append(f.calls, "ListHistory")
	if f.ListHistoryFunc != nil {
		return f.ListHistoryFunc(ctx, filter)
	}
	return []matchimportdomain.ImportHistoryEntry{}, nil
}

func (f *FakeService) GetHistory(ctx context.Context, historyID uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
	f.calls = append(f.calls, "GetHistory")
	if f.GetHistoryFunc != nil {
		return f.GetHistoryFunc(ctx, historyID)
	}
	return nil, matchimportservice.ErrHistoryNotFound
}

func (f *FakeService) SearchPlayers(ctx context.Context, query string, limit int) ([]matchimportdomain.Player, error) {
	f.calls = append(f.calls, "SearchPlayers")
	if f.SearchPlayersFunc != nil {
		return f.SearchPlayersFunc(ctx, query, limit)
	}
	return []matchimportdomain.Player{}, nil
}

func (f *FakeService) ListMatches(ctx context.Context, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error) {
	f.calls = append(f.calls, "ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, filter)
	}
	return []matchimportdomain.MatchRecord{}, nil
}

func (f *FakeService) GetMatch(ctx context.Context, matchID uuid.UUID) (*matchimportservice.MatchView, error) {
	f.calls = append(f.calls, "GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, matchID)
	}
	return nil, matchimportservice.ErrMatchNotFound
}

var _ matchimportservice.Service = (*FakeService)(nil)
