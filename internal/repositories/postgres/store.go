package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

// Store is the gorm-backed repositories.Repository. All tables share one
// *gorm.DB and one cache.Manager.
type Store struct {
	db    *gorm.DB
	cache *cache.Manager

	staff        repositories.StaffRepository
	course       repositories.CourseRepository
	blog         repositories.BlogRepository
	video        repositories.VideoRepository
	registration repositories.RegistrationRepository
	dashboard    repositories.DashboardRepository
}

func newStore(db *gorm.DB, cm *cache.Manager) *Store {
	return &Store{
		db:           db,
		cache:        cm,
		staff:        NewStaffPostgreSQL(db, cm),
		course:       NewCoursePostgreSQL(db, cm),
		blog:         NewBlogPostgreSQL(db, cm),
		video:        NewVideoPostgreSQL(db, cm),
		registration: NewRegistrationPostgreSQL(db, cm),
		dashboard:    NewDashboardRepository(db, cm),
	}
}

func (s *Store) Staff() repositories.StaffRepository               { return s.staff }
func (s *Store) Course() repositories.CourseRepository             { return s.course }
func (s *Store) Blog() repositories.BlogRepository                 { return s.blog }
func (s *Store) Video() repositories.VideoRepository               { return s.video }
func (s *Store) Registration() repositories.RegistrationRepository { return s.registration }
func (s *Store) Dashboard() repositories.DashboardRepository       { return s.dashboard }

// WithTransaction hands fn a Store bound to a single transaction. Returning
// an error from fn rolls it back. Cache evictions made inside fn take effect
// only after the commit, so a concurrent reader cannot re-cache the old row.
func (s *Store) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	txCache, commit := s.cache.ForTransaction()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, txCache))
	})
	if err != nil {
		return err
	}
	commit(ctx)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	if err := s.cache.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrUnavailable) {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the database pool. Redis belongs to the Manager.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	return sqlDB.Close()
}

// Config holds the connections a Manager takes ownership of. Redis is optional.
type Config struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// Manager owns the connection lifecycle behind a Store.
type Manager struct {
	cfg   Config
	store *Store
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Initialize fails fast when Postgres or a configured Redis is unreachable.
func (m *Manager) Initialize() error {
	if m.cfg.DB == nil {
		return errors.New("postgres: nil database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := newStore(m.cfg.DB, cache.NewManager(m.cfg.RedisClient))
	if err := store.Ping(ctx); err != nil {
		return err
	}
	m.store = store
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.store
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.store == nil {
		return errors.New("postgres: not initialized")
	}
	return m.store.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	err := m.store.Close()
	if m.cfg.RedisClient != nil {
		err = errors.Join(err, m.cfg.RedisClient.Close())
	}
	return err
}
