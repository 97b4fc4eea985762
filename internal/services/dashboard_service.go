package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

// RecentWindowDays is the window of the recent registrations count.
const RecentWindowDays = 7

// roleSections lists the back-office sections shown on each role's landing page.
var roleSections = map[models.UserRole][]string{
	models.RoleAdmin:     {"dashboard", "courses", "blogs", "videos", "users", "management"},
	models.RoleSales:     {"users", "courses"},
	models.RoleTechnical: {"courses", "videos"},
	models.RoleHR:        {"users"},
	models.RoleMedia:     {"blogs", "videos"},
	models.RoleEmployee:  {"profile"},
}

type dashboardService struct {
	repo    repositories.Repository
	landing auth.LandingTable
	logger  *slog.Logger
}

func NewDashboardService(repo repositories.Repository, landing auth.LandingTable, logger *slog.Logger) DashboardService {
	return &dashboardService{repo: repo, landing: landing, logger: logger}
}

// Overview gathers the headline counts concurrently.
func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	overview := &DashboardOverview{RecentRegistrationsDays: RecentWindowDays}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview.Staff, err = s.repo.Staff().Count(gctx)
		return wrapCount("staff", err)
	})
	g.Go(func() (err error) {
		overview.Courses, err = s.repo.Course().Count(gctx)
		return wrapCount("courses", err)
	})
	g.Go(func() (err error) {
		overview.Blogs, err = s.repo.Blog().Count(gctx)
		return wrapCount("blogs", err)
	})
	g.Go(func() (err error) {
		overview.Videos, err = s.repo.Video().Count(gctx)
		return wrapCount("videos", err)
	})
	g.Go(func() (err error) {
		overview.Registrations, err = s.repo.Registration().Count(gctx)
		return wrapCount("registrations", err)
	})
	g.Go(func() (err error) {
		overview.RecentRegistrations, err = s.repo.Dashboard().CountRegistrationsSince(gctx, RecentWindowDays)
		return wrapCount("recent registrations", err)
	})
	g.Go(func() (err error) {
		overview.RegistrationsByPayment, err = s.repo.Dashboard().CountRegistrationsByPaymentStatus(gctx)
		return wrapCount("registrations by payment", err)
	})
	g.Go(func() (err error) {
		overview.CoursesByStatus, err = s.repo.Dashboard().CountCoursesByStatus(gctx)
		return wrapCount("courses by status", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, status := range models.AllPaymentStatuses {
		if _, ok := overview.RegistrationsByPayment[string(status)]; !ok {
			overview.RegistrationsByPayment[string(status)] = 0
		}
	}

	s.logger.Debug("Dashboard overview computed", "registrations", overview.Registrations)
	return overview, nil
}

// ForRole describes the landing page of role for caller. The admin page is
// reserved to admins; every other landing page is open to any signed-in staff.
func (s *dashboardService) ForRole(ctx context.Context, caller *auth.Identity, role models.UserRole) (*RoleDashboard, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if role == models.RoleAdmin && !caller.IsAdmin() {
		return nil, NewPermissionError(caller.ID, "dashboard", "view", "admin only")
	}

	return &RoleDashboard{
		Role:     role,
		Path:     s.landing.PathFor(role),
		UserID:   caller.ID,
		Sections: roleSections[role],
	}, nil
}

func wrapCount(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", what, err)
	}
	return nil
}
