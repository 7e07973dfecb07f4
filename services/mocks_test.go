package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bhataakib02/retail-app/events"
	"github.com/bhataakib02/retail-app/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// --- Mocks for Dependencies ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, username, email string) error {
	args := m.Called(ctx, id, username, email)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AdminRows(ctx context.Context) ([]models.AdminOrderRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AdminOrderRow), args.Error(1)
}

func (m *MockOrderRepository) InvoiceHeader(ctx context.Context, orderID uint) (*models.InvoiceHeader, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceHeader), args.Error(1)
}

func (m *MockOrderRepository) InvoiceLines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.OrderLine), args.Error(1)
}

// memProductRepo is an in-memory ProductRepository with gorm's not-found
// semantics. It counts writes so tests can assert nothing was written.
type memProductRepo struct {
	mu       sync.Mutex
	rows     map[uint]models.Product
	nextID   uint
	writes   int
	failNext error
}

func newMemProductRepo(seed ...models.Product) *memProductRepo {
	r := &memProductRepo{rows: make(map[uint]models.Product), nextID: 1}
	for _, p := range seed {
		r.rows[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *memProductRepo) List(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for id := uint(1); id < r.nextID; id++ {
		if p, ok := r.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failNext; err != nil {
		r.failNext = nil
		return err
	}
	r.writes++
	p.ID = r.nextID
	r.nextID++
	r.rows[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.writes++
	r.rows[p.ID] = *p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.writes++
	delete(r.rows, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *memProductRepo) DecrementStock(_ context.Context, id uint, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	r.writes++
	p.Stock -= quantity
	r.rows[id] = p
	return true, nil
}

// memImageStore records saved files by name.
type memImageStore struct {
	files   map[string][]byte
	deleted []string
}

func newMemImageStore() *memImageStore {
	return &memImageStore{files: make(map[string][]byte)}
}

func (s *memImageStore) Save(_ context.Context, filename string, r io.Reader, _ string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.files[filename] = buf.Bytes()
	return filename, nil
}

func (s *memImageStore) Delete(_ context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	delete(s.files, name)
	return nil
}

type recordingPublisher struct {
	events []events.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e events.OrderPlaced) error {
	p.events = append(p.events, e)
	return p.err
}

type countingMetrics struct {
	counts map[string]int
}

func (m *countingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[name]++
	return nil
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gormDB, mock
}
