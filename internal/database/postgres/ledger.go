package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

const spinColumns = `request_id, player, reel_count, bet_amount, reels, payout_type, payout, settled, requested_at, settled_at`

const settingsColumns = `paused, base_chip_price_cents, vrf_cost_cents, vrf_markup_bp, house_edge_bp, test_eth_price_cents`

type ledgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(db *pgxpool.Pool) repository.Ledger {
	return &ledgerRepository{db: db}
}

// BeginTx starts a ledger transaction
func (r *ledgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, wrapDBError("failed to begin transaction", err)
	}
	return &ledgerTx{tx: tx}, nil
}

func (r *ledgerRepository) GetSpin(ctx context.Context, id domain.RequestID) (*domain.Spin, error) {
	spin, err := scanSpin(r.db.QueryRow(ctx, `SELECT `+spinColumns+` FROM spins WHERE request_id = $1`, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSpinNotFound
	}
	if err != nil {
		return nil, wrapDBError("failed to get spin", err)
	}
	return spin, nil
}

func (r *ledgerRepository) ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error) {
	if limit <= 0 {
		limit = DefaultSpinHistoryLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+spinColumns+`
		FROM spins
		WHERE player = $1
		ORDER BY requested_at DESC, request_id DESC
		LIMIT $2`, player, limit)
	if err != nil {
		return nil, wrapDBError("failed to list spins", err)
	}
	defer rows.Close()

	spins := []*domain.Spin{}
	for rows.Next() {
		spin, err := scanSpin(rows)
		if err != nil {
			return nil, wrapDBError("failed to scan spin", err)
		}
		spins = append(spins, spin)
	}
	return spins, rows.Err()
}

func (r *ledgerRepository) GetPlayer(ctx context.Context, player string) (*domain.PlayerAccount, error) {
	account, err := scanPlayer(r.db.QueryRow(ctx, `
		SELECT player, balance, pending_winnings, spins_count, total_winnings, updated_at
		FROM players WHERE player = $1`, player))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, wrapDBError("failed to get player", err)
	}
	return account, nil
}

func (r *ledgerRepository) GetLoan(ctx context.Context, player string) (*domain.Loan, error) {
	loan, err := scanLoan(r.db.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE player = $1`, player))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewLoan(player), nil
	}
	if err != nil {
		return nil, wrapDBError("failed to get loan", err)
	}
	return loan, nil
}

func (r *ledgerRepository) GetPrizePool(ctx context.Context) (*domain.PrizePool, error) {
	return getPrizePool(ctx, r.db, "")
}

func (r *ledgerRepository) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	return getTreasury(ctx, r.db, "")
}

func (r *ledgerRepository) GetSettings(ctx context.Context) (*domain.GameSettings, error) {
	return getSettings(ctx, r.db, "")
}

func (r *ledgerRepository) CountPendingSpins(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	var err error
	if olderThan.IsZero() {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spins WHERE NOT settled`).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spins WHERE NOT settled AND requested_at < $1`, olderThan).Scan(&count)
	}
	if err != nil {
		return 0, wrapDBError("failed to count pending spins", err)
	}
	return count, nil
}

func (r *ledgerRepository) LatestPayoutTables(ctx context.Context) ([]repository.PayoutTableRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT version, reel_count, entries, created_at
		FROM payout_table_versions
		WHERE version = (SELECT MAX(version) FROM payout_table_versions)
		ORDER BY reel_count`)
	if err != nil {
		return nil, wrapDBError("failed to load payout tables", err)
	}
	defer rows.Close()

	var records []repository.PayoutTableRecord
	for rows.Next() {
		var rec repository.PayoutTableRecord
		var reelCount int16
		var entriesJSON []byte
		if err := rows.Scan(&rec.Version, &reelCount, &entriesJSON, &rec.CreatedAt); err != nil {
			return nil, wrapDBError("failed to scan payout table", err)
		}
		rec.ReelCount = int(reelCount)
		if err := json.Unmarshal(entriesJSON, &rec.Entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payout table %d/%d: %w", rec.Version, rec.ReelCount, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *ledgerTx) GetSettings(ctx context.Context) (*domain.GameSettings, error) {
	return getSettings(ctx, t.tx, " FOR SHARE")
}

func (t *ledgerTx) GetSettingsForUpdate(ctx context.Context) (*domain.GameSettings, error) {
	return getSettings(ctx, t.tx, " FOR UPDATE")
}

func (t *ledgerTx) SaveSettings(ctx context.Context, s *domain.GameSettings) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO game_settings (id, `+settingsColumns+`, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			paused = EXCLUDED.paused,
			base_chip_price_cents = EXCLUDED.base_chip_price_cents,
			vrf_cost_cents = EXCLUDED.vrf_cost_cents,
			vrf_markup_bp = EXCLUDED.vrf_markup_bp,
			house_edge_bp = EXCLUDED.house_edge_bp,
			test_eth_price_cents = EXCLUDED.test_eth_price_cents,
			updated_at = NOW()`,
		singletonID, s.Paused, s.Pricing.BaseChipPriceCents, s.Pricing.VRFCostCents,
		s.Pricing.VRFMarkupBP, s.Pricing.HouseEdgeBP, s.TestETHPriceCents)
	if err != nil {
		return wrapDBError("failed to save settings", err)
	}
	return nil
}

func (t *ledgerTx) GetPlayerForUpdate(ctx context.Context, player string) (*domain.PlayerAccount, error) {
	if _, err := t.tx.Exec(ctx, `INSERT INTO players (player) VALUES ($1) ON CONFLICT (player) DO NOTHING`, player); err != nil {
		return nil, wrapDBError("failed to create player", err)
	}
	account, err := scanPlayer(t.tx.QueryRow(ctx, `
		SELECT player, balance, pending_winnings, spins_count, total_winnings, updated_at
		FROM players WHERE player = $1 FOR UPDATE`, player))
	if err != nil {
		return nil, wrapDBError("failed to lock player", err)
	}
	return account, nil
}

func (t *ledgerTx) UpdatePlayer(ctx context.Context, a *domain.PlayerAccount) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE players
		SET balance = $2, pending_winnings = $3, spins_count = $4, total_winnings = $5, updated_at = NOW()
		WHERE player = $1`,
		a.Player, int64(a.Balance), int64(a.PendingWinnings), a.SpinsCount, int64(a.TotalWinnings))
	if err != nil {
		return wrapDBError("failed to update player", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (t *ledgerTx) GetLoanForUpdate(ctx context.Context, player string) (*domain.Loan, error) {
	if _, err := t.tx.Exec(ctx, `INSERT INTO loans (player) VALUES ($1) ON CONFLICT (player) DO NOTHING`, player); err != nil {
		return nil, wrapDBError("failed to create loan", err)
	}
	loan, err := scanLoan(t.tx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE player = $1 FOR UPDATE`, player))
	if err != nil {
		return nil, wrapDBError("failed to lock loan", err)
	}
	return loan, nil
}

func (t *ledgerTx) UpdateLoan(ctx context.Context, l *domain.Loan) error {
	if l.Collateral.Sign() < 0 || l.Debt.Sign() < 0 {
		return fmt.Errorf("%w: negative loan position", domain.ErrInvalidAmount)
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE loans SET collateral = $2::numeric, debt = $3::numeric, updated_at = NOW()
		WHERE player = $1`,
		l.Player, l.Collateral.String(), l.Debt.String())
	if err != nil {
		return wrapDBError("failed to update loan", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (t *ledgerTx) GetPrizePoolForUpdate(ctx context.Context) (*domain.PrizePool, error) {
	return getPrizePool(ctx, t.tx, " FOR UPDATE")
}

func (t *ledgerTx) UpdatePrizePool(ctx context.Context, p *domain.PrizePool) error {
	if _, err := t.tx.Exec(ctx, `UPDATE prize_pool SET balance = $2, updated_at = NOW() WHERE id = $1`, singletonID, int64(p.Balance)); err != nil {
		return wrapDBError("failed to update prize pool", err)
	}
	return nil
}

func (t *ledgerTx) GetTreasuryForUpdate(ctx context.Context) (*domain.Treasury, error) {
	return getTreasury(ctx, t.tx, " FOR UPDATE")
}

func (t *ledgerTx) UpdateTreasury(ctx context.Context, tr *domain.Treasury) error {
	if _, err := t.tx.Exec(ctx, `UPDATE treasury SET wei = $2::numeric, updated_at = NOW() WHERE id = $1`, singletonID, tr.WeiString()); err != nil {
		return wrapDBError("failed to update treasury", err)
	}
	return nil
}

func (t *ledgerTx) InsertSpin(ctx context.Context, s *domain.Spin) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO spins (request_id, player, reel_count, bet_amount, requested_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(s.RequestID), s.Player, s.ReelCount, int64(s.BetAmount), s.RequestedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRequest, s.RequestID)
	}
	if err != nil {
		return wrapDBError("failed to insert spin", err)
	}
	return nil
}

func (t *ledgerTx) GetSpinForUpdate(ctx context.Context, id domain.RequestID) (*domain.Spin, error) {
	spin, err := scanSpin(t.tx.QueryRow(ctx, `SELECT `+spinColumns+` FROM spins WHERE request_id = $1 FOR UPDATE`, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("failed to lock spin", err)
	}
	return spin, nil
}

func (t *ledgerTx) SettleSpin(ctx context.Context, s *domain.Spin) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE spins
		SET reels = $2, payout_type = $3, payout = $4, settled = TRUE, settled_at = $5
		WHERE request_id = $1 AND settled = FALSE`,
		string(s.RequestID), intsToInt32(s.Reels), int16(s.PayoutType), int64(s.Payout), s.SettledAt)
	if err != nil {
		return 0, wrapDBError("failed to settle spin", err)
	}
	return tag.RowsAffected(), nil
}

func (t *ledgerTx) SavePayoutTables(ctx context.Context, records []repository.PayoutTableRecord) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		entriesJSON, err := json.Marshal(rec.Entries)
		if err != nil {
			return fmt.Errorf("failed to marshal payout table: %w", err)
		}
		batch.Queue(`INSERT INTO payout_table_versions (version, reel_count, entries) VALUES ($1, $2, $3)`,
			rec.Version, rec.ReelCount, entriesJSON)
	}

	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: version already stored", domain.ErrInvalidPayoutTable)
			}
			return wrapDBError("failed to save payout tables", err)
		}
	}
	return nil
}

func getSettings(ctx context.Context, q querier, lock string) (*domain.GameSettings, error) {
	var s domain.GameSettings
	err := q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM game_settings WHERE id = $1`+lock, singletonID).Scan(
		&s.Paused, &s.Pricing.BaseChipPriceCents, &s.Pricing.VRFCostCents,
		&s.Pricing.VRFMarkupBP, &s.Pricing.HouseEdgeBP, &s.TestETHPriceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("failed to get settings", err)
	}
	return &s, nil
}

func getPrizePool(ctx context.Context, q querier, lock string) (*domain.PrizePool, error) {
	var balance int64
	var p domain.PrizePool
	if err := q.QueryRow(ctx, `SELECT balance, updated_at FROM prize_pool WHERE id = $1`+lock, singletonID).Scan(&balance, &p.UpdatedAt); err != nil {
		return nil, wrapDBError("failed to get prize pool", err)
	}
	p.Balance = domain.Chips(balance)
	return &p, nil
}

func getTreasury(ctx context.Context, q querier, lock string) (*domain.Treasury, error) {
	var weiText string
	if err := q.QueryRow(ctx, `SELECT wei::text FROM treasury WHERE id = $1`+lock, singletonID).Scan(&weiText); err != nil {
		return nil, wrapDBError("failed to get treasury", err)
	}
	wei, err := parseWei(weiText)
	if err != nil {
		return nil, err
	}
	return &domain.Treasury{Wei: wei}, nil
}

func scanSpin(row pgx.Row) (*domain.Spin, error) {
	var (
		s          domain.Spin
		id         string
		reelCount  int16
		bet        int64
		reels      []int32
		payoutType int16
		payout     int64
	)
	if err := row.Scan(&id, &s.Player, &reelCount, &bet, &reels, &payoutType, &payout, &s.Settled, &s.RequestedAt, &s.SettledAt); err != nil {
		return nil, err
	}
	s.RequestID = domain.RequestID(id)
	s.ReelCount = int(reelCount)
	s.BetAmount = domain.Chips(bet)
	s.Reels = int32sToInts(reels)
	s.PayoutType = domain.PayoutType(payoutType)
	s.Payout = domain.Chips(payout)
	return &s, nil
}

func scanPlayer(row pgx.Row) (*domain.PlayerAccount, error) {
	var (
		a                        domain.PlayerAccount
		balance, pending, totals int64
	)
	if err := row.Scan(&a.Player, &balance, &pending, &a.SpinsCount, &totals, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Balance = domain.Chips(balance)
	a.PendingWinnings = domain.Chips(pending)
	a.TotalWinnings = domain.Chips(totals)
	return &a, nil
}

const loanColumns = `player, collateral::text, debt::text, updated_at`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		l                    domain.Loan
		collateral, debtText string
	)
	if err := row.Scan(&l.Player, &collateral, &debtText, &l.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.Collateral, err = parseWei(collateral); err != nil {
		return nil, err
	}
	if l.Debt, err = parseWei(debtText); err != nil {
		return nil, err
	}
	return &l, nil
}
