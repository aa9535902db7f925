// Package memory provides in-process implementations of the repository
// interfaces, used for local development and service tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// DefaultSpinHistoryLimit caps ListPlayerSpins when no limit is given
const DefaultSpinHistoryLimit = 50

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// Ledger is an in-memory repository.Ledger. Transactions are serialized by
// a single writer slot held from BeginTx to Commit or Rollback; staged
// changes become visible to readers only on commit.
type Ledger struct {
	writer chan struct{}

	mu       sync.RWMutex
	players  map[string]*domain.PlayerAccount
	loans    map[string]*domain.Loan
	spins    map[domain.RequestID]*domain.Spin
	pool     domain.PrizePool
	treasury *big.Int
	settings *domain.GameSettings
	tables   []repository.PayoutTableRecord
	now      func() time.Time
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		writer:   make(chan struct{}, 1),
		players:  make(map[string]*domain.PlayerAccount),
		loans:    make(map[string]*domain.Loan),
		spins:    make(map[domain.RequestID]*domain.Spin),
		treasury: new(big.Int),
		now:      time.Now,
	}
}

// BeginTx waits for the writer slot
func (l *Ledger) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	select {
	case l.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to begin transaction: %w", ctx.Err())
	}
	return &ledgerTx{
		l:       l,
		players: make(map[string]*domain.PlayerAccount),
		loans:   make(map[string]*domain.Loan),
		spins:   make(map[domain.RequestID]*domain.Spin),
	}, nil
}

func (l *Ledger) GetSpin(ctx context.Context, id domain.RequestID) (*domain.Spin, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.spins[id]
	if !ok {
		return nil, domain.ErrSpinNotFound
	}
	return s.Clone(), nil
}

func (l *Ledger) ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error) {
	if limit <= 0 {
		limit = DefaultSpinHistoryLimit
	}
	l.mu.RLock()
	spins := lo.FilterMap(lo.Values(l.spins), func(s *domain.Spin, _ int) (*domain.Spin, bool) {
		if s.Player != player {
			return nil, false
		}
		return s.Clone(), true
	})
	l.mu.RUnlock()

	sort.Slice(spins, func(i, j int) bool {
		if !spins[i].RequestedAt.Equal(spins[j].RequestedAt) {
			return spins[i].RequestedAt.After(spins[j].RequestedAt)
		}
		return spins[i].RequestID > spins[j].RequestID
	})
	if len(spins) > limit {
		spins = spins[:limit]
	}
	return spins, nil
}

func (l *Ledger) GetPlayer(ctx context.Context, player string) (*domain.PlayerAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.players[player]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	c := *a
	return &c, nil
}

func (l *Ledger) GetLoan(ctx context.Context, player string) (*domain.Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if loan, ok := l.loans[player]; ok {
		return loan.Clone(), nil
	}
	return domain.NewLoan(player), nil
}

func (l *Ledger) GetPrizePool(ctx context.Context) (*domain.PrizePool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p := l.pool
	return &p, nil
}

func (l *Ledger) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &domain.Treasury{Wei: new(big.Int).Set(l.treasury)}, nil
}

func (l *Ledger) GetSettings(ctx context.Context) (*domain.GameSettings, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.settings == nil {
		return nil, nil
	}
	s := *l.settings
	return &s, nil
}

func (l *Ledger) CountPendingSpins(ctx context.Context, olderThan time.Time) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := lo.CountBy(lo.Values(l.spins), func(s *domain.Spin) bool {
		return !s.Settled && (olderThan.IsZero() || s.RequestedAt.Before(olderThan))
	})
	return int64(n), nil
}

func (l *Ledger) LatestPayoutTables(ctx context.Context) ([]repository.PayoutTableRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.tables) == 0 {
		return nil, nil
	}
	latest := lo.MaxBy(l.tables, func(a, b repository.PayoutTableRecord) bool { return a.Version > b.Version }).Version
	records := lo.Filter(l.tables, func(r repository.PayoutTableRecord, _ int) bool { return r.Version == latest })
	sort.Slice(records, func(i, j int) bool { return records[i].ReelCount < records[j].ReelCount })
	return lo.Map(records, func(r repository.PayoutTableRecord, _ int) repository.PayoutTableRecord {
		r.Entries = maps.Clone(r.Entries)
		return r
	}), nil
}

// ledgerTx stages every write; the committed maps are only touched by Commit
type ledgerTx struct {
	l      *Ledger
	closed bool

	players  map[string]*domain.PlayerAccount
	loans    map[string]*domain.Loan
	spins    map[domain.RequestID]*domain.Spin
	pool     *domain.PrizePool
	treasury *big.Int
	settings *domain.GameSettings
	tables   []repository.PayoutTableRecord
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	defer t.release()

	l := t.l
	now := l.now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, a := range t.players {
		a.UpdatedAt = now
		l.players[k] = a
	}
	for k, loan := range t.loans {
		loan.UpdatedAt = now
		l.loans[k] = loan
	}
	for k, s := range t.spins {
		l.spins[k] = s
	}
	if t.pool != nil {
		l.pool = *t.pool
		l.pool.UpdatedAt = now
	}
	if t.treasury != nil {
		l.treasury = t.treasury
	}
	if t.settings != nil {
		l.settings = t.settings
	}
	l.tables = append(l.tables, t.tables...)
	return nil
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.release()
	return nil
}

func (t *ledgerTx) release() {
	<-t.l.writer
}

func (t *ledgerTx) check() error {
	if t.closed {
		return errTxClosed
	}
	return nil
}

func (t *ledgerTx) GetSettings(ctx context.Context) (*domain.GameSettings, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.settings != nil {
		s := *t.settings
		return &s, nil
	}
	return t.l.GetSettings(ctx)
}

func (t *ledgerTx) GetSettingsForUpdate(ctx context.Context) (*domain.GameSettings, error) {
	return t.GetSettings(ctx)
}

func (t *ledgerTx) SaveSettings(ctx context.Context, s *domain.GameSettings) error {
	if err := t.check(); err != nil {
		return err
	}
	c := *s
	t.settings = &c
	return nil
}

func (t *ledgerTx) GetPlayerForUpdate(ctx context.Context, player string) (*domain.PlayerAccount, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if a, ok := t.players[player]; ok {
		c := *a
		return &c, nil
	}
	a, err := t.l.GetPlayer(ctx, player)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		a = domain.NewPlayerAccount(player)
		t.players[player] = a
		c := *a
		return &c, nil
	}
	return a, err
}

func (t *ledgerTx) UpdatePlayer(ctx context.Context, a *domain.PlayerAccount) error {
	if err := t.check(); err != nil {
		return err
	}
	if a.Balance < 0 || a.PendingWinnings < 0 {
		return fmt.Errorf("%w: negative player balance", domain.ErrInvalidAmount)
	}
	c := *a
	t.players[a.Player] = &c
	return nil
}

func (t *ledgerTx) GetLoanForUpdate(ctx context.Context, player string) (*domain.Loan, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if loan, ok := t.loans[player]; ok {
		return loan.Clone(), nil
	}
	return t.l.GetLoan(ctx, player)
}

func (t *ledgerTx) UpdateLoan(ctx context.Context, loan *domain.Loan) error {
	if err := t.check(); err != nil {
		return err
	}
	c := loan.Clone()
	if c.Collateral.Sign() < 0 || c.Debt.Sign() < 0 {
		return fmt.Errorf("%w: negative loan position", domain.ErrInvalidAmount)
	}
	t.loans[loan.Player] = c
	return nil
}

func (t *ledgerTx) GetPrizePoolForUpdate(ctx context.Context) (*domain.PrizePool, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.pool != nil {
		p := *t.pool
		return &p, nil
	}
	return t.l.GetPrizePool(ctx)
}

func (t *ledgerTx) UpdatePrizePool(ctx context.Context, p *domain.PrizePool) error {
	if err := t.check(); err != nil {
		return err
	}
	if p.Balance < 0 {
		return fmt.Errorf("%w: negative prize pool", domain.ErrInsufficientPool)
	}
	c := *p
	t.pool = &c
	return nil
}

func (t *ledgerTx) GetTreasuryForUpdate(ctx context.Context) (*domain.Treasury, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.treasury != nil {
		return &domain.Treasury{Wei: new(big.Int).Set(t.treasury)}, nil
	}
	return t.l.GetTreasury(ctx)
}

func (t *ledgerTx) UpdateTreasury(ctx context.Context, tr *domain.Treasury) error {
	if err := t.check(); err != nil {
		return err
	}
	wei := new(big.Int)
	if tr.Wei != nil {
		wei.Set(tr.Wei)
	}
	if wei.Sign() < 0 {
		return fmt.Errorf("%w: negative treasury", domain.ErrInsufficientTreasury)
	}
	t.treasury = wei
	return nil
}

func (t *ledgerTx) InsertSpin(ctx context.Context, s *domain.Spin) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, staged := t.spins[s.RequestID]; staged {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRequest, s.RequestID)
	}
	if _, err := t.l.GetSpin(ctx, s.RequestID); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRequest, s.RequestID)
	}
	t.spins[s.RequestID] = s.Clone()
	return nil
}

func (t *ledgerTx) GetSpinForUpdate(ctx context.Context, id domain.RequestID) (*domain.Spin, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if s, ok := t.spins[id]; ok {
		return s.Clone(), nil
	}
	s, err := t.l.GetSpin(ctx, id)
	if errors.Is(err, domain.ErrSpinNotFound) {
		return nil, nil
	}
	return s, err
}

func (t *ledgerTx) SettleSpin(ctx context.Context, s *domain.Spin) (int64, error) {
	current, err := t.GetSpinForUpdate(ctx, s.RequestID)
	if err != nil {
		return 0, err
	}
	if current == nil || current.Settled {
		return 0, nil
	}
	t.spins[s.RequestID] = s.Clone()
	return 1, nil
}

func (t *ledgerTx) SavePayoutTables(ctx context.Context, records []repository.PayoutTableRecord) error {
	if err := t.check(); err != nil {
		return err
	}
	t.l.mu.RLock()
	existing := lo.SomeBy(t.l.tables, func(stored repository.PayoutTableRecord) bool {
		return lo.ContainsBy(records, func(r repository.PayoutTableRecord) bool {
			return r.Version == stored.Version && r.ReelCount == stored.ReelCount
		})
	})
	t.l.mu.RUnlock()
	if existing {
		return fmt.Errorf("%w: version already stored", domain.ErrInvalidPayoutTable)
	}

	now := t.l.now().UTC()
	for _, r := range records {
		r.Entries = maps.Clone(r.Entries)
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		t.tables = append(t.tables, r)
	}
	return nil
}
