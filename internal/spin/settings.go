package spin

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/repository"
	"github.com/osse101/DegenSlots_Go/internal/validation"
)

// Init seeds game_settings from the configured pricing the first time the
// store is used, re-applies a persisted test price, and binds the newest
// persisted payout tables. With no persisted tables the seed file (or the
// generated defaults) is bound and stored as the first version.
func (s *service) Init(ctx context.Context) error {
	if err := s.initSettings(ctx); err != nil {
		return err
	}
	return s.initTables(ctx)
}

func (s *service) initSettings(ctx context.Context) error {
	log := logger.FromContext(ctx)

	settings, err := s.ledger.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadSettings, err)
	}
	if settings == nil {
		settings = s.defaultSettings()
		if err := settings.Pricing.Validate(); err != nil {
			return err
		}
		if err := s.withTx(ctx, func(tx repository.LedgerTx) error {
			return tx.SaveSettings(ctx, settings)
		}); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSaveSettings, err)
		}
		log.Info(LogMsgSettingsSeeded, "house_edge_bp", settings.Pricing.HouseEdgeBP)
	}

	if settings.TestETHPriceCents > 0 && s.prices != nil {
		s.prices.SetTestPrice(settings.TestETHPriceCents)
	}
	return nil
}

func (s *service) initTables(ctx context.Context) error {
	log := logger.FromContext(ctx)

	records, err := s.ledger.LatestPayoutTables(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadTables, err)
	}
	if len(records) > 0 {
		tables := lo.SliceToMap(records, func(r repository.PayoutTableRecord) (int, map[string]domain.PayoutType) {
			return r.ReelCount, r.Entries
		})
		set, err := payout.Restore(records[0].Version, tables)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLoadTables, err)
		}
		s.resolver.Replace(set)
		log.Info(LogMsgTablesRestored, "version", set.Version())
		return nil
	}

	set := s.resolver.Active()
	if s.opts.PayoutTablesFile != "" {
		v := s.opts.SchemaValidator
		if v == nil {
			v = validation.NewSchemaValidator()
		}
		set, err = payout.LoadSeedFile(s.opts.PayoutTablesFile, v)
		if err != nil {
			return err
		}
		s.resolver.Replace(set)
	}

	if err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		return tx.SavePayoutTables(ctx, tableRecords(set))
	}); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSaveTables, err)
	}
	log.Info(LogMsgTablesSeeded, "version", set.Version(), "file", s.opts.PayoutTablesFile)
	return nil
}

// readSettings returns the stored settings, or the configured defaults when
// Init has not run against this store
func (s *service) readSettings(ctx context.Context, tx repository.LedgerTx, forUpdate bool) (*domain.GameSettings, error) {
	read := tx.GetSettings
	if forUpdate {
		read = tx.GetSettingsForUpdate
	}
	settings, err := read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadSettings, err)
	}
	if settings == nil {
		return s.defaultSettings(), nil
	}
	return settings, nil
}

// currentSettings reads committed settings outside a transaction
func (s *service) currentSettings(ctx context.Context) (*domain.GameSettings, error) {
	settings, err := s.ledger.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadSettings, err)
	}
	if settings == nil {
		return s.defaultSettings(), nil
	}
	return settings, nil
}

// withTx runs fn in a ledger transaction and commits when it returns nil
func (s *service) withTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}
	return nil
}

func tableRecords(set *payout.TableSet) []repository.PayoutTableRecord {
	return lo.Map(set.Tables(), func(t *payout.Table, _ int) repository.PayoutTableRecord {
		return repository.PayoutTableRecord{
			Version:   set.Version(),
			ReelCount: t.ReelCount(),
			Entries:   t.Entries(),
		}
	})
}
