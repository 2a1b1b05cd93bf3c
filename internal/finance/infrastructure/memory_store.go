package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps accounts, holders, transferences, finances and categories in memory.
// Units of work are serialized by a single mutex and applied only when fn succeeds.
type MemoryStore struct {
	mu            sync.Mutex
	accounts      map[int64]domain.Account
	holders       map[int64]domain.AccountHolder
	transferences []domain.Transference
	finances      map[uuid.UUID]domain.Finance
	categories    []domain.Category
	nextAccountID int64

	// InsertErr, when set, fails every transference insert inside a unit of work.
	InsertErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[int64]domain.Account),
		holders:  make(map[int64]domain.AccountHolder),
		finances: make(map[uuid.UUID]domain.Finance),
	}
}

// AddAccount creates an account with the given balance and a live holder.
func (s *MemoryStore) AddAccount(balance string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	id := s.nextAccountID
	s.accounts[id] = domain.Account{ID: id, Balance: decimal.RequireFromString(balance), CreatedAt: time.Now().UTC()}
	s.holders[id] = domain.AccountHolder{UserID: uuid.NewString(), AccountID: id, IsActive: true}
	return id
}

func (s *MemoryStore) SetHolder(holder domain.AccountHolder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holders[holder.AccountID] = holder
}

func (s *MemoryStore) RemoveHolder(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holders, accountID)
}

func (s *MemoryStore) AddCategory(name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	category := domain.Category{ID: len(s.categories) + 1, Name: name}
	s.categories = append(s.categories, category)
	return category
}

func (s *MemoryStore) Balance(accountID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID].Balance
}

func (s *MemoryStore) TransferenceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transferences)
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &account, nil
}

func (s *MemoryStore) FindByAccountID(_ context.Context, accountID int64) (*domain.AccountHolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holder, ok := s.holders[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &holder, nil
}

func (s *MemoryStore) ListBySender(_ context.Context, accountID int64) ([]domain.Transference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.Transference
	for i := len(s.transferences) - 1; i >= 0; i-- {
		if s.transferences[i].SenderAccountID == accountID {
			result = append(result, s.transferences[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Category(nil), s.categories...), nil
}

func (s *MemoryStore) FindByNames(_ context.Context, names []string) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}
	var result []domain.Category
	for _, category := range s.categories {
		if wanted[strings.ToLower(category.Name)] {
			result = append(result, category)
		}
	}
	return result, nil
}

// FinanceByID implements domain.FinanceRepository.FindByID under a distinct name; see FinanceRepository.
func (s *MemoryStore) FinanceByID(_ context.Context, accountID int64, id uuid.UUID) (*domain.Finance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	finance, ok := s.finances[id]
	if !ok || finance.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	return &finance, nil
}

func (s *MemoryStore) ListByAccount(_ context.Context, accountID int64) ([]domain.Finance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.Finance
	for _, finance := range s.finances {
		if finance.AccountID == accountID {
			result = append(result, finance)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// FinanceRepository adapts the store to domain.FinanceRepository, whose FindByID clashes with the account lookup.
func (s *MemoryStore) FinanceRepository() domain.FinanceRepository {
	return memoryFinances{store: s}
}

type memoryFinances struct {
	store *MemoryStore
}

func (f memoryFinances) FindByID(ctx context.Context, accountID int64, id uuid.UUID) (*domain.Finance, error) {
	return f.store.FinanceByID(ctx, accountID, id)
}

func (f memoryFinances) ListByAccount(ctx context.Context, accountID int64) ([]domain.Finance, error) {
	return f.store.ListByAccount(ctx, accountID)
}

func (s *MemoryStore) Do(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{store: s, balances: make(map[int64]decimal.Decimal)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, balance := range tx.balances {
		account := s.accounts[id]
		account.Balance = balance
		s.accounts[id] = account
	}
	for _, apply := range tx.pending {
		apply()
	}
	return nil
}

type memoryTx struct {
	store    *MemoryStore
	balances map[int64]decimal.Decimal
	pending  []func()
}

func (t *memoryTx) Accounts() domain.AccountStore          { return t }
func (t *memoryTx) Transferences() domain.TransferenceStore { return memoryTransferences{t} }
func (t *memoryTx) Finances() domain.FinanceStore           { return memoryFinanceStore{t} }

func (t *memoryTx) balance(id int64) (decimal.Decimal, bool) {
	if balance, ok := t.balances[id]; ok {
		return balance, true
	}
	account, ok := t.store.accounts[id]
	if !ok {
		return decimal.Zero, false
	}
	return account.Balance, true
}

func (t *memoryTx) LockForUpdate(_ context.Context, ids ...int64) (map[int64]*domain.Account, error) {
	locked := make(map[int64]*domain.Account, len(ids))
	for _, id := range ids {
		balance, ok := t.balance(id)
		if !ok {
			continue
		}
		account := t.store.accounts[id]
		account.Balance = balance
		locked[id] = &account
	}
	return locked, nil
}

func (t *memoryTx) Debit(_ context.Context, id int64, amount decimal.Decimal) error {
	balance, ok := t.balance(id)
	if !ok {
		return domain.ErrNotFound
	}
	if balance.LessThan(amount) {
		return domain.ErrBalanceTooLow
	}
	t.balances[id] = balance.Sub(amount)
	return nil
}

func (t *memoryTx) Credit(_ context.Context, id int64, amount decimal.Decimal) error {
	balance, ok := t.balance(id)
	if !ok {
		return domain.ErrNotFound
	}
	t.balances[id] = balance.Add(amount)
	return nil
}

type memoryTransferences struct {
	tx *memoryTx
}

func (m memoryTransferences) Insert(_ context.Context, transference *domain.Transference) error {
	if m.tx.store.InsertErr != nil {
		return m.tx.store.InsertErr
	}
	stored := *transference
	m.tx.pending = append(m.tx.pending, func() {
		m.tx.store.transferences = append(m.tx.store.transferences, stored)
	})
	return nil
}

type memoryFinanceStore struct {
	tx *memoryTx
}

func (m memoryFinanceStore) Insert(_ context.Context, finance *domain.Finance) error {
	stored := *finance
	stored.Categories = append([]domain.Category(nil), finance.Categories...)
	m.tx.pending = append(m.tx.pending, func() {
		m.tx.store.finances[stored.ID] = stored
	})
	return nil
}

func (m memoryFinanceStore) UpdateDescription(_ context.Context, id uuid.UUID, description string) error {
	if _, ok := m.tx.store.finances[id]; !ok {
		return domain.ErrNotFound
	}
	m.tx.pending = append(m.tx.pending, func() {
		finance := m.tx.store.finances[id]
		finance.Description = description
		m.tx.store.finances[id] = finance
	})
	return nil
}

func (m memoryFinanceStore) ReplaceCategories(_ context.Context, id uuid.UUID, categories []domain.Category) error {
	if _, ok := m.tx.store.finances[id]; !ok {
		return domain.ErrNotFound
	}
	replacement := append([]domain.Category(nil), categories...)
	m.tx.pending = append(m.tx.pending, func() {
		finance := m.tx.store.finances[id]
		finance.Categories = replacement
		m.tx.store.finances[id] = finance
	})
	return nil
}
