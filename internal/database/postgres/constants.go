package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Singleton row id shared by prize_pool, treasury and game_settings
const singletonID = 1

// DefaultSpinHistoryLimit caps ListPlayerSpins when no limit is given
const DefaultSpinHistoryLimit = 50
