package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/storage"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

// Dependencies are the collaborators shared by the services.
type Dependencies struct {
	Sessions   *auth.SessionManager
	Landing    auth.LandingTable
	Events     events.EventPublisher
	Blobs      storage.BlobStore
	BlobBucket string
	Metrics    *metrics.Metrics
}

func (d Dependencies) check() error {
	var errs []error
	if d.Sessions == nil {
		errs = append(errs, errors.New("session manager is required"))
	}
	if d.Blobs == nil {
		errs = append(errs, errors.New("blob store is required"))
	}
	return errors.Join(errs...)
}

// serviceSet is built once by Initialize and never mutated afterwards.
type serviceSet struct {
	auth         AuthService
	management   ManagementService
	course       CourseService
	blog         BlogService
	video        VideoService
	registration RegistrationService
	media        MediaService
	dashboard    DashboardService
}

type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      Dependencies

	initMu sync.Mutex
	set    atomic.Pointer[serviceSet]
	closed atomic.Bool
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps Dependencies) ServiceManager {
	if deps.Landing == nil {
		deps.Landing = auth.DefaultLanding
	}
	if deps.Events == nil {
		deps.Events = events.NoopPublisher{}
	}
	return &serviceManager{repo: repo, logger: logger, validator: validator, deps: deps}
}

// Initialize wires every service against the shared repository. Calling it
// again after a success is a no-op.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.initMu.Lock()
	defer sm.initMu.Unlock()

	if sm.set.Load() != nil {
		return nil
	}
	if err := sm.deps.check(); err != nil {
		return fmt.Errorf("services: %w", err)
	}

	d, r, log, v := sm.deps, sm.repo, sm.logger, sm.validator
	sm.set.Store(&serviceSet{
		auth:         NewAuthService(r, d.Sessions, d.Landing, log, v, d.Metrics),
		management:   NewManagementService(r, log, v, d.Events),
		course:       NewCourseService(r, log, v, d.Events, d.Metrics),
		blog:         NewBlogService(r, log, v),
		video:        NewVideoService(r, log, v, d.Blobs, d.BlobBucket),
		registration: NewRegistrationService(r, log, v, d.Events, d.Metrics),
		media:        NewMediaService(d.Blobs, log),
		dashboard:    NewDashboardService(r, d.Landing, log),
	})

	sm.logger.InfoContext(ctx, "Services ready", "bucket", d.BlobBucket)
	return nil
}

// services panics when used before Initialize; that is a wiring bug.
func (sm *serviceManager) services() *serviceSet {
	set := sm.set.Load()
	if set == nil {
		panic("services: used before Initialize")
	}
	return set
}

func (sm *serviceManager) Auth() AuthService                 { return sm.services().auth }
func (sm *serviceManager) Management() ManagementService     { return sm.services().management }
func (sm *serviceManager) Course() CourseService             { return sm.services().course }
func (sm *serviceManager) Blog() BlogService                 { return sm.services().blog }
func (sm *serviceManager) Video() VideoService               { return sm.services().video }
func (sm *serviceManager) Registration() RegistrationService { return sm.services().registration }
func (sm *serviceManager) Media() MediaService               { return sm.services().media }
func (sm *serviceManager) Dashboard() DashboardService       { return sm.services().dashboard }

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	switch {
	case sm.set.Load() == nil:
		return errors.New("services: not initialized")
	case sm.closed.Load():
		return errors.New("services: shut down")
	}
	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	return nil
}

// Shutdown closes the event publisher once. The repository is closed by its
// own manager.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	if !sm.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := sm.deps.Events.Close(); err != nil {
		sm.logger.ErrorContext(ctx, "Failed to close event publisher", "error", err)
	}
	sm.logger.InfoContext(ctx, "Services stopped")
	return nil
}
