package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for PostgreSQL that keeps the two
// properties the ledger engine relies on: an exclusive per-wallet lock held
// for the whole read-validate-write span, and atomic visibility of the
// wallet update + transaction record + audit entry at commit.
//
// Writes made through a memTx are staged and only applied on Commit, under
// the store mutex, so a reader never observes a half-applied operation.
type memStore struct {
	mu       sync.RWMutex
	wallets  map[uuid.UUID]*domain.Wallet
	txns     []*domain.Transaction
	audits   []*domain.AuditEntry
	locks    sync.Map // uuid.UUID -> chan struct{} (cap 1)
	lockWait time.Duration
}

func newMemStore(lockWait time.Duration) *memStore {
	return &memStore{
		wallets:  make(map[uuid.UUID]*domain.Wallet),
		lockWait: lockWait,
	}
}

// lockWallet acquires the wallet's exclusive lock, waiting at most lockWait.
// On timeout it returns the same SQLSTATE PostgreSQL raises for an expired
// lock_timeout so the service layer maps it identically.
func (s *memStore) lockWallet(ctx context.Context, id uuid.UUID) (func(), error) {
	v, _ := s.locks.LoadOrStore(id, make(chan struct{}, 1))
	ch := v.(chan struct{})
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-time.After(s.lockWait):
		return nil, &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func copyWallet(w *domain.Wallet) *domain.Wallet {
	cp := *w
	if w.UpdatedAt != nil {
		u := *w.UpdatedAt
		cp.UpdatedAt = &u
	}
	return &cp
}

// transactionCount returns how many SUCCESS transactions exist for a wallet.
func (s *memStore) transactionCount(walletID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.txns {
		if t.WalletID == walletID && t.Status == domain.TransactionStatusSuccess {
			n++
		}
	}
	return n
}

// auditEntries returns the audit trail for a wallet in insertion order.
func (s *memStore) auditEntries(walletID uuid.UUID) []*domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.AuditEntry
	for _, e := range s.audits {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out
}

// --- In-memory transactor ---

type memTransactor struct {
	store *memStore
}

func newMemTransactor(store *memStore) *memTransactor {
	return &memTransactor{store: store}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{store: t.store}, nil
}

// memTx stages writes until Commit and releases wallet locks on completion.
type memTx struct {
	noopTx
	store    *memStore
	mu       sync.Mutex
	staged   []func()
	releases []func()
	done     bool
}

func (t *memTx) stage(apply func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged = append(t.staged, apply)
}

func (t *memTx) holdLock(release func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.releases = append(t.releases, release)
}

func (t *memTx) finish() {
	for _, release := range t.releases {
		release()
	}
	t.staged = nil
	t.releases = nil
	t.done = true
}

func (t *memTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}

	t.store.mu.Lock()
	for _, apply := range t.staged {
		apply()
	}
	t.store.mu.Unlock()

	t.finish()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		// Matches pgx: rollback after commit is a harmless no-op for callers
		// that defer it.
		return pgx.ErrTxClosed
	}
	t.finish()
	return nil
}

// --- In-memory wallet repo ---

type memWalletRepo struct {
	store *memStore
}

func newMemWalletRepo(store *memStore) *memWalletRepo {
	return &memWalletRepo{store: store}
}

func (r *memWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.wallets[w.ID] = copyWallet(w)
	return nil
}

func (r *memWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	return copyWallet(w), nil
}

func (r *memWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("unexpected tx type %T", tx)
	}

	release, err := r.store.lockWallet(ctx, id)
	if err != nil {
		return nil, err
	}
	mt.holdLock(release)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	return copyWallet(w), nil
}

func (r *memWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	mt.stage(func() {
		if w, ok := r.store.wallets[walletID]; ok {
			now := time.Now().UTC()
			w.Balance = newBalance
			w.UpdatedAt = &now
		}
	})
	return nil
}

func (r *memWalletRepo) UpdateStatus(ctx context.Context, walletID uuid.UUID, status domain.WalletStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[walletID]
	if !ok || w.Status == domain.WalletStatusDeleted {
		return false, nil
	}
	now := time.Now().UTC()
	w.Status = status
	w.UpdatedAt = &now
	return true, nil
}

// --- In-memory transaction repo ---

type memTransactionRepo struct {
	store *memStore
}

func newMemTransactionRepo(store *memStore) *memTransactionRepo {
	return &memTransactionRepo{store: store}
}

func (r *memTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	cp := *t
	mt.stage(func() {
		r.store.txns = append(r.store.txns, &cp)
	})
	return nil
}

// --- In-memory audit repo ---

type memAuditRepo struct {
	store *memStore
}

func newMemAuditRepo(store *memStore) *memAuditRepo {
	return &memAuditRepo{store: store}
}

func (r *memAuditRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.AuditEntry) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	cp := *e
	mt.stage(func() {
		r.store.audits = append(r.store.audits, &cp)
	})
	return nil
}

// noopTx fills out the pgx.Tx surface memTx does not need.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
