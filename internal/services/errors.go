package services

import "errors"

// Sentinel errors surfaced by the services layer. Handlers map them to
// HTTP status codes with errors.Is; services wrap them with operation
// context via fmt.Errorf("...: %w", err).
var (
	// Authorization
	ErrBlacklisted = errors.New("account is blacklisted")

	// Config state
	ErrMaintenance       = errors.New("platform is under maintenance")
	ErrGameNotConfigured = errors.New("game is not configured for this asset kind")
	ErrGameInactive      = errors.New("game is inactive")
	ErrPoolInactive      = errors.New("treasury pool is inactive")
	ErrRafflePaused      = errors.New("raffle entries are paused")
	ErrRaffleActive      = errors.New("raffle is still active")
	ErrRaffleResolved    = errors.New("raffle is already resolved")

	// Bounds violations
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountOverflow      = errors.New("amount overflows the pool balance")
	ErrStakeOutOfBounds    = errors.New("stake is outside the configured bounds")
	ErrTicketLimitExceeded = errors.New("ticket count exceeds the per-entry cap")
	ErrPlayCountExceeded   = errors.New("play count exceeds the per-call cap")
	ErrInvalidWinnerCount  = errors.New("winner count must be positive")

	// Insufficient resources
	ErrInsufficientFunds     = errors.New("insufficient wallet balance")
	ErrInsufficientBalance   = errors.New("insufficient treasury balance")
	ErrInsufficientTickets   = errors.New("insufficient ticket balance")
	ErrInsufficientInventory = errors.New("collectible inventory is exhausted")
	ErrNoParticipants        = errors.New("raffle has no participants")

	// Invalid selectors
	ErrInvalidSelector   = errors.New("invalid claim selector")
	ErrInvalidGameKind   = errors.New("unknown game kind")
	ErrInvalidRaffleKind = errors.New("unknown raffle kind")
	ErrInvalidCoinFace   = errors.New("selected face must be HEADS or TAILS")

	// Auth
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)
