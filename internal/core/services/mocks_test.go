package services

import (
	"context"
	"time"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/core/domain"

	"gorm.io/gorm"
)

// fixedClock returns a preset time, advanced explicitly by tests.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// memStore is the shared in-memory backing state of the fake repositories.
// The fake transaction manager snapshots and restores it, so tests can
// verify all-or-nothing behavior without a database.
type memStore struct {
	nextID     uint
	borrows    map[uint]*models.Borrow
	charges    map[uint]*models.PendingCharge
	entries    []*models.InterestEntry
	repayments []*models.Repayment
}

func newMemStore() *memStore {
	return &memStore{
		nextID:  1,
		borrows: make(map[uint]*models.Borrow),
		charges: make(map[uint]*models.PendingCharge),
	}
}

func (s *memStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) snapshot() *memStore {
	clone := &memStore{
		nextID:  s.nextID,
		borrows: make(map[uint]*models.Borrow, len(s.borrows)),
		charges: make(map[uint]*models.PendingCharge, len(s.charges)),
	}
	for id, b := range s.borrows {
		copied := *b
		clone.borrows[id] = &copied
	}
	for id, c := range s.charges {
		copied := *c
		clone.charges[id] = &copied
	}
	for _, e := range s.entries {
		copied := *e
		clone.entries = append(clone.entries, &copied)
	}
	for _, r := range s.repayments {
		copied := *r
		clone.repayments = append(clone.repayments, &copied)
	}
	return clone
}

func (s *memStore) restore(from *memStore) {
	s.nextID = from.nextID
	s.borrows = from.borrows
	s.charges = from.charges
	s.entries = from.entries
	s.repayments = from.repayments
}

// fakeTxManager rolls the store back to its pre-transaction state when the
// callback fails, mirroring the database transaction semantics.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	before := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(before)
		return err
	}
	return nil
}

// ------------------------------------------------------------
// Borrow repository fake
// ------------------------------------------------------------

type fakeBorrowRepo struct {
	store *memStore

	// onLock runs when a row lock is taken, before the locked read
	// returns. Lets tests interleave a write with lock acquisition.
	onLock func()
}

func (r *fakeBorrowRepo) Create(ctx context.Context, borrow *models.Borrow) error {
	borrow.ID = r.store.id()
	copied := *borrow
	r.store.borrows[borrow.ID] = &copied
	return nil
}

func (r *fakeBorrowRepo) GetByID(ctx context.Context, id uint) (*models.Borrow, error) {
	borrow, ok := r.store.borrows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *borrow
	return &copied, nil
}

func (r *fakeBorrowRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Borrow, error) {
	if r.onLock != nil {
		r.onLock()
	}
	return r.GetByID(ctx, id)
}

func (r *fakeBorrowRepo) Update(ctx context.Context, borrow *models.Borrow) error {
	if _, ok := r.store.borrows[borrow.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *borrow
	r.store.borrows[borrow.ID] = &copied
	return nil
}

func (r *fakeBorrowRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.borrows, id)
	return nil
}

func (r *fakeBorrowRepo) List(ctx context.Context, offset, limit int) ([]*models.Borrow, int64, error) {
	var borrows []*models.Borrow
	for _, b := range r.store.borrows {
		copied := *b
		borrows = append(borrows, &copied)
	}
	return borrows, int64(len(borrows)), nil
}

func (r *fakeBorrowRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Borrow, error) {
	var borrows []*models.Borrow
	for _, b := range r.store.borrows {
		if b.UserID == userID {
			copied := *b
			borrows = append(borrows, &copied)
		}
	}
	return borrows, nil
}

func (r *fakeBorrowRepo) ListRepayable(ctx context.Context, userID *uint) ([]*models.Borrow, error) {
	var borrows []*models.Borrow
	for _, b := range r.store.borrows {
		if b.Status == domain.BorrowStatusPaid {
			continue
		}
		if userID != nil && b.UserID != *userID {
			continue
		}
		copied := *b
		borrows = append(borrows, &copied)
	}
	return borrows, nil
}

// ------------------------------------------------------------
// Pending charge repository fake
// ------------------------------------------------------------

type fakeChargeRepo struct {
	store *memStore
}

func (r *fakeChargeRepo) Upsert(ctx context.Context, charge *models.PendingCharge) error {
	for id, existing := range r.store.charges {
		if existing.BorrowID == charge.BorrowID {
			// The update path keeps the stored row's id but, like
			// MySQL's ON DUPLICATE KEY UPDATE, does not report it back
			// to the caller's struct.
			copied := *charge
			copied.ID = id
			r.store.charges[id] = &copied
			return nil
		}
	}
	charge.ID = r.store.id()
	copied := *charge
	r.store.charges[charge.ID] = &copied
	return nil
}

func (r *fakeChargeRepo) GetByID(ctx context.Context, id uint) (*models.PendingCharge, error) {
	charge, ok := r.store.charges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *charge
	return &copied, nil
}

func (r *fakeChargeRepo) GetByBorrowID(ctx context.Context, borrowID uint) (*models.PendingCharge, error) {
	for _, charge := range r.store.charges {
		if charge.BorrowID == borrowID {
			copied := *charge
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChargeRepo) Update(ctx context.Context, charge *models.PendingCharge) error {
	if _, ok := r.store.charges[charge.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *charge
	r.store.charges[charge.ID] = &copied
	return nil
}

func (r *fakeChargeRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.charges, id)
	return nil
}

func (r *fakeChargeRepo) List(ctx context.Context) ([]*models.PendingCharge, error) {
	var charges []*models.PendingCharge
	for _, charge := range r.store.charges {
		copied := *charge
		charges = append(charges, &copied)
	}
	return charges, nil
}

// ------------------------------------------------------------
// Interest entry repository fake
// ------------------------------------------------------------

type fakeEntryRepo struct {
	store *memStore

	// failCreate makes Create return this error, for atomicity tests.
	failCreate error
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *models.InterestEntry) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	entry.ID = r.store.id()
	copied := *entry
	r.store.entries = append(r.store.entries, &copied)
	return nil
}

func (r *fakeEntryRepo) ListByBorrow(ctx context.Context, borrowID uint) ([]*models.InterestEntry, error) {
	var entries []*models.InterestEntry
	for _, entry := range r.store.entries {
		if entry.BorrowID == borrowID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (r *fakeEntryRepo) LatestEndDate(ctx context.Context, borrowID uint) (*time.Time, error) {
	var latest *time.Time
	for _, entry := range r.store.entries {
		if entry.BorrowID != borrowID {
			continue
		}
		if latest == nil || entry.EndDate.After(*latest) {
			end := entry.EndDate
			latest = &end
		}
	}
	return latest, nil
}

func (r *fakeEntryRepo) SumByBorrow(ctx context.Context, borrowID uint) (float64, error) {
	var total float64
	for _, entry := range r.store.entries {
		if entry.BorrowID == borrowID {
			total += entry.Amount
		}
	}
	return total, nil
}

// ------------------------------------------------------------
// Repayment repository fake
// ------------------------------------------------------------

type fakeRepaymentRepo struct {
	store *memStore
}

func (r *fakeRepaymentRepo) Create(ctx context.Context, repayment *models.Repayment) error {
	repayment.ID = r.store.id()
	copied := *repayment
	r.store.repayments = append(r.store.repayments, &copied)
	return nil
}

func (r *fakeRepaymentRepo) ListByBorrow(ctx context.Context, borrowID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	for _, repayment := range r.store.repayments {
		if repayment.BorrowID == borrowID {
			copied := *repayment
			repayments = append(repayments, &copied)
		}
	}
	return repayments, nil
}

func (r *fakeRepaymentRepo) SumByBorrow(ctx context.Context, borrowID uint) (float64, error) {
	var total float64
	for _, repayment := range r.store.repayments {
		if repayment.BorrowID == borrowID {
			total += repayment.Amount
		}
	}
	return total, nil
}

// ------------------------------------------------------------
// Test fixture
// ------------------------------------------------------------

type ledgerFixture struct {
	store         *memStore
	clock         *fixedClock
	txManager     *fakeTxManager
	borrowRepo    *fakeBorrowRepo
	chargeRepo    *fakeChargeRepo
	entryRepo     *fakeEntryRepo
	repaymentRepo *fakeRepaymentRepo
}

func newLedgerFixture(now time.Time) *ledgerFixture {
	store := newMemStore()
	return &ledgerFixture{
		store:         store,
		clock:         &fixedClock{now: now},
		txManager:     &fakeTxManager{store: store},
		borrowRepo:    &fakeBorrowRepo{store: store},
		chargeRepo:    &fakeChargeRepo{store: store},
		entryRepo:     &fakeEntryRepo{store: store},
		repaymentRepo: &fakeRepaymentRepo{store: store},
	}
}

func (f *ledgerFixture) interestService() *InterestService {
	return NewInterestService(f.txManager, f.borrowRepo, f.chargeRepo, f.entryRepo, f.clock)
}

func (f *ledgerFixture) repaymentService() *RepaymentService {
	return NewRepaymentService(f.txManager, f.borrowRepo, f.chargeRepo, f.entryRepo, f.repaymentRepo, f.clock)
}

func (f *ledgerFixture) addBorrow(principal, rate float64, anchor time.Time) *models.Borrow {
	borrow := &models.Borrow{
		UserID:          1,
		CurrencyID:      1,
		Amount:          principal,
		RemainingAmount: principal,
		Rate:            rate,
		BorrowedDate:    anchor,
		InterestDate:    anchor,
		Status:          domain.BorrowStatusOpen,
	}
	f.borrowRepo.Create(context.Background(), borrow)
	return borrow
}
