package payout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/validation"
)

// SchemaName is the registered name of the seed file schema
const SchemaName = "payout_tables.schema.json"

//go:embed schema/payout_tables.schema.json
var seedSchema []byte

// seedFile is the on-disk shape of a payout table seed:
//
//	{"version": 2, "tables": {"3": {"666": "JACKPOT", ...}, ...}}
type seedFile struct {
	Version int64                                   `json:"version"`
	Tables  map[string]map[string]domain.PayoutType `json:"tables"`
}

// RegisterSchema adds the seed schema to v
func RegisterSchema(v validation.SchemaValidator) error {
	return v.AddSchema(SchemaName, seedSchema)
}

// LoadSeedFile reads a payout table seed, validates it against the embedded
// schema and overlays it on the generated defaults. Arities missing from the
// file keep their default table.
func LoadSeedFile(path string, v validation.SchemaValidator) (*TableSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payout tables %s: %w", path, err)
	}
	return ParseSeed(data, v)
}

// ParseSeed is LoadSeedFile for in-memory data
func ParseSeed(data []byte, v validation.SchemaValidator) (*TableSet, error) {
	if err := RegisterSchema(v); err != nil {
		return nil, err
	}
	if err := v.ValidateBytes(data, SchemaName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayoutTable, err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayoutTable, err)
	}

	set, err := DefaultTableSet()
	if err != nil {
		return nil, err
	}
	tables := set.tables

	for countStr, entries := range seed.Tables {
		reelCount, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, fmt.Errorf("%w: reel count %q", domain.ErrInvalidPayoutTable, countStr)
		}
		t, err := NewTable(reelCount, entries)
		if err != nil {
			return nil, err
		}
		tables[reelCount] = t
	}

	version := seed.Version
	if version == 0 {
		version = DefaultTablesVersion
	}
	return &TableSet{version: version, tables: tables}, nil
}

// Restore rebuilds a persisted set. Arities absent from tables keep their
// generated default table.
func Restore(version int64, tables map[int]map[string]domain.PayoutType) (*TableSet, error) {
	set, err := DefaultTableSet()
	if err != nil {
		return nil, err
	}
	merged := set.tables
	for reelCount, entries := range tables {
		t, err := NewTable(reelCount, entries)
		if err != nil {
			return nil, err
		}
		merged[reelCount] = t
	}
	return &TableSet{version: version, tables: merged}, nil
}
