package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

const (
	keyPrefix  = "account:"
	defaultTTL = 5 * time.Minute

	// tombstone marks a deleted account. Read misses only fill empty keys, so
	// a lookup racing a delete cannot put the deleted account back.
	tombstone = "deleted"
)

// setUnlessBuried writes ARGV[1] with a TTL of ARGV[2] ms unless the key
// holds the tombstone. Ids are never reused, so a buried key stays buried.
var setUnlessBuried = redis.NewScript(`
if redis.call("GET", KEYS[1]) == "` + tombstone + `" then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// CachedAccountRepository is a read-through cache in front of another
// repository. Only lookups by id are cached; writes overwrite the entry for
// the account they touched and deletes leave a tombstone for one TTL.
// Cache failures never fail a request.
// Key format: account:<id>
type CachedAccountRepository struct {
	next   ports.AccountRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedAccountRepository(next ports.AccountRepository, client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *CachedAccountRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CachedAccountRepository{next: next, client: client, ttl: ttl, log: log}
}

// cachedAccount keeps the password hash, which domain.Account hides from JSON.
type cachedAccount struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Role          string    `json:"role"`
	StudentNumber *string   `json:"student_number,omitempty"`
	StaffNumber   *string   `json:"staff_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func fromAccount(a *domain.Account) cachedAccount {
	return cachedAccount{
		ID:            a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Role:          string(a.Role),
		StudentNumber: a.StudentNumber,
		StaffNumber:   a.StaffNumber,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (c cachedAccount) toAccount() *domain.Account {
	return &domain.Account{
		ID:            c.ID,
		FullName:      c.FullName,
		Email:         c.Email,
		PasswordHash:  c.PasswordHash,
		Role:          domain.Role(c.Role),
		StudentNumber: c.StudentNumber,
		StaffNumber:   c.StaffNumber,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *CachedAccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil && string(raw) == tombstone:
		// Deleted recently; the repository decides.
	case err == nil:
		var c cachedAccount
		if err := json.Unmarshal(raw, &c); err == nil {
			return c.toAccount(), nil
		}
		r.log.Warn().Int64("account_id", id).Msg("dropping undecodable cache entry")
		r.drop(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Int64("account_id", id).Msg("account cache read failed")
	}

	acc, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, acc)
	return acc, nil
}

func (r *CachedAccountRepository) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	saved, err := r.next.Save(ctx, a)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			r.bury(ctx, a.ID)
		case a.ID != 0:
			r.drop(ctx, a.ID)
		}
		return nil, err
	}
	r.store(ctx, saved)
	return saved, nil
}

func (r *CachedAccountRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.next.DeleteByID(ctx, id)
	r.bury(ctx, id)
	return err
}

func (r *CachedAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *CachedAccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.next.ExistsByEmail(ctx, email)
}

func (r *CachedAccountRepository) ExistsByStaffNumber(ctx context.Context, staffNumber string) (bool, error) {
	return r.next.ExistsByStaffNumber(ctx, staffNumber)
}

func (r *CachedAccountRepository) ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error) {
	return r.next.ExistsByStudentNumber(ctx, studentNumber)
}

// store overwrites the entry with a freshly written account unless the
// account was deleted in the meantime.
func (r *CachedAccountRepository) store(ctx context.Context, a *domain.Account) {
	raw, ok := r.encode(a)
	if !ok {
		return
	}
	err := setUnlessBuried.Run(ctx, r.client, []string{key(a.ID)}, raw, r.ttl.Milliseconds()).Err()
	if err != nil {
		r.log.Warn().Err(err).Int64("account_id", a.ID).Msg("account cache write failed")
	}
}

// fill caches a looked-up account unless the key already holds a newer write
// or a tombstone.
func (r *CachedAccountRepository) fill(ctx context.Context, a *domain.Account) {
	raw, ok := r.encode(a)
	if !ok {
		return
	}
	if err := r.client.SetNX(ctx, key(a.ID), raw, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Int64("account_id", a.ID).Msg("account cache fill failed")
	}
}

func (r *CachedAccountRepository) encode(a *domain.Account) ([]byte, bool) {
	raw, err := json.Marshal(fromAccount(a))
	if err != nil {
		r.log.Warn().Err(err).Int64("account_id", a.ID).Msg("account cache encode failed")
		return nil, false
	}
	return raw, true
}

// bury replaces the entry with a tombstone.
func (r *CachedAccountRepository) bury(ctx context.Context, id int64) {
	if err := r.client.Set(ctx, key(id), tombstone, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Int64("account_id", id).Msg("account cache tombstone failed")
	}
}

func (r *CachedAccountRepository) drop(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		r.log.Warn().Err(err).Int64("account_id", id).Msg("account cache delete failed")
	}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

var _ ports.AccountRepository = (*CachedAccountRepository)(nil)
