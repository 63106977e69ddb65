package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// RaffleRepository is an in-memory raffle store.
type RaffleRepository struct {
	mu      sync.RWMutex
	raffles []*models.Raffle
}

// NewRaffleRepository creates an empty in-memory raffle store.
func NewRaffleRepository() *RaffleRepository {
	return &RaffleRepository{}
}

func (r *RaffleRepository) Create(_ context.Context, raffle *models.Raffle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = time.Now()
	if raffle.Participants == nil {
		raffle.Participants = []primitive.ObjectID{}
	}

	r.raffles = append(r.raffles, cloneRaffle(raffle))
	return nil
}

func (r *RaffleRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, raffle := range r.raffles {
		if raffle.ID == id {
			return cloneRaffle(raffle), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *RaffleRepository) FindByStatus(_ context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Raffle, 0)
	for _, raffle := range r.raffles {
		if raffle.Status == status {
			matched = append(matched, cloneRaffle(raffle))
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *RaffleRepository) FindAll(_ context.Context, page, limit int) ([]*models.Raffle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Raffle, 0, len(r.raffles))
	for _, raffle := range r.raffles {
		out = append(out, cloneRaffle(raffle))
	}
	return paginate(out, page, limit), nil
}

func (r *RaffleRepository) AppendParticipants(_ context.Context, raffleID, accountID primitive.ObjectID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, raffle := range r.raffles {
		if raffle.ID == raffleID {
			for i := 0; i < count; i++ {
				raffle.Participants = append(raffle.Participants, accountID)
			}
			raffle.EntryCount += count
			raffle.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *RaffleRepository) SetActive(_ context.Context, raffleID primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, raffle := range r.raffles {
		if raffle.ID == raffleID {
			raffle.Active = active
			if active {
				raffle.Status = models.RaffleStatusOpen
			} else {
				raffle.Status = models.RaffleStatusClosed
			}
			raffle.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *RaffleRepository) Update(_ context.Context, raffle *models.Raffle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.raffles {
		if existing.ID == raffle.ID {
			raffle.UpdatedAt = time.Now()
			r.raffles[i] = cloneRaffle(raffle)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func cloneRaffle(raffle *models.Raffle) *models.Raffle {
	clone := *raffle
	clone.Participants = append([]primitive.ObjectID(nil), raffle.Participants...)
	clone.ExecutionLog = append([]string(nil), raffle.ExecutionLog...)
	return &clone
}

var _ repositories.RaffleWinnerRepository = (*RaffleWinnerRepository)(nil)

// RaffleWinnerRepository is an in-memory raffle winner store.
type RaffleWinnerRepository struct {
	mu      sync.RWMutex
	winners []*models.RaffleWinner
}

// NewRaffleWinnerRepository creates an empty in-memory winner store.
func NewRaffleWinnerRepository() *RaffleWinnerRepository {
	return &RaffleWinnerRepository{}
}

func (r *RaffleWinnerRepository) CreateMany(_ context.Context, winners []*models.RaffleWinner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, w := range winners {
		w.ID = primitive.NewObjectID()
		w.CreatedAt = now
		if w.WonAt.IsZero() {
			w.WonAt = now
		}
		clone := *w
		r.winners = append(r.winners, &clone)
	}
	return nil
}

func (r *RaffleWinnerRepository) FindByRaffleID(_ context.Context, raffleID primitive.ObjectID) ([]*models.RaffleWinner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.RaffleWinner, 0)
	for _, w := range r.winners {
		if w.RaffleID == raffleID {
			clone := *w
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *RaffleWinnerRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.RaffleWinner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.RaffleWinner, 0)
	for _, w := range r.winners {
		if w.AccountID == accountID {
			clone := *w
			matched = append(matched, &clone)
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *RaffleWinnerRepository) FindAll(_ context.Context, page, limit int) ([]*models.RaffleWinner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RaffleWinner, 0, len(r.winners))
	for _, w := range r.winners {
		clone := *w
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

var _ repositories.RaffleArchiveRepository = (*RaffleArchiveRepository)(nil)

// RaffleArchiveRepository is an in-memory archive of resolved raffles.
type RaffleArchiveRepository struct {
	mu       sync.RWMutex
	archives []*models.RaffleArchive
	sequence int64
}

// NewRaffleArchiveRepository creates an empty in-memory archive.
func NewRaffleArchiveRepository() *RaffleArchiveRepository {
	return &RaffleArchiveRepository{}
}

func (r *RaffleArchiveRepository) Create(_ context.Context, archive *models.RaffleArchive) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	archive.ID = primitive.NewObjectID()
	archive.CreatedAt = time.Now()

	clone := *archive
	clone.Participants = append([]primitive.ObjectID(nil), archive.Participants...)
	clone.WinnerIDs = append([]primitive.ObjectID(nil), archive.WinnerIDs...)
	r.archives = append(r.archives, &clone)
	return nil
}

func (r *RaffleArchiveRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

func (r *RaffleArchiveRepository) FindByRaffleID(_ context.Context, raffleID primitive.ObjectID) (*models.RaffleArchive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.archives {
		if a.RaffleID == raffleID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *RaffleArchiveRepository) FindAll(_ context.Context, page, limit int) ([]*models.RaffleArchive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RaffleArchive, 0, len(r.archives))
	for _, a := range r.archives {
		clone := *a
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

var _ repositories.TicketBalanceRepository = (*TicketBalanceRepository)(nil)

// TicketBalanceRepository is an in-memory spendable ticket store.
type TicketBalanceRepository struct {
	mu       sync.RWMutex
	balances map[primitive.ObjectID]*models.TicketBalance
}

// NewTicketBalanceRepository creates an empty in-memory ticket store.
func NewTicketBalanceRepository() *TicketBalanceRepository {
	return &TicketBalanceRepository{balances: make(map[primitive.ObjectID]*models.TicketBalance)}
}

func (r *TicketBalanceRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID) (*models.TicketBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	balance, ok := r.balances[accountID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *balance
	return &clone, nil
}

func (r *TicketBalanceRepository) Adjust(_ context.Context, accountID primitive.ObjectID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance, ok := r.balances[accountID]
	if delta < 0 {
		if !ok || balance.Tickets < -delta {
			return mongo.ErrNoDocuments
		}
		balance.Tickets += delta
		balance.UpdatedAt = time.Now()
		return nil
	}

	if !ok {
		balance = &models.TicketBalance{
			ID:        primitive.NewObjectID(),
			AccountID: accountID,
		}
		r.balances[accountID] = balance
	}
	balance.Tickets += delta
	balance.UpdatedAt = time.Now()
	return nil
}
