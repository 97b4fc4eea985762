package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo is an in-memory repositories.Repository. calls counts every
// store method invocation by name.
type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int

	staff         map[string]*models.Staff
	courses       map[string]*models.Course
	blogs         map[string]*models.Blog
	videos        map[string]*models.Video
	registrations map[string]*models.Registration
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calls:         make(map[string]int),
		staff:         make(map[string]*models.Staff),
		courses:       make(map[string]*models.Course),
		blogs:         make(map[string]*models.Blog),
		videos:        make(map[string]*models.Video),
		registrations: make(map[string]*models.Registration),
	}
}

func (f *fakeRepo) called(name string) {
	f.calls[name]++
}

func (f *fakeRepo) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRepo) addStaff(name string, role models.UserRole) *models.Staff {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.Staff{ID: uuid.NewString(), Name: name, Email: name + "@example.org", Role: role, CreatedAt: time.Now()}
	f.staff[s.ID] = s
	return s
}

func (f *fakeRepo) addCourse(title string) *models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.Course{ID: uuid.NewString(), Title: title, Status: models.CourseUpcoming, CreatedAt: time.Now()}
	f.courses[c.ID] = c
	return c
}

func (f *fakeRepo) Staff() repositories.StaffRepository               { return fakeStaff{f} }
func (f *fakeRepo) Course() repositories.CourseRepository             { return fakeCourses{f} }
func (f *fakeRepo) Blog() repositories.BlogRepository                 { return fakeBlogs{f} }
func (f *fakeRepo) Video() repositories.VideoRepository               { return fakeVideos{f} }
func (f *fakeRepo) Registration() repositories.RegistrationRepository { return fakeRegistrations{f} }
func (f *fakeRepo) Dashboard() repositories.DashboardRepository       { return fakeDashboard{f} }

func (f *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeRepo) Close() error                   { return nil }

func page[T any](rows []*T, limit, offset int) []*T {
	if offset >= len(rows) {
		return []*T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// ===== staff =====

type fakeStaff struct{ f *fakeRepo }

func (r fakeStaff) Create(ctx context.Context, s *models.Staff) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.Create")
	for _, existing := range r.f.staff {
		if existing.Email == s.Email {
			return &repositories.DuplicateError{Field: "email"}
		}
		if existing.Name == s.Name {
			return &repositories.DuplicateError{Field: "name"}
		}
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	cp := *s
	r.f.staff[s.ID] = &cp
	return nil
}

func (r fakeStaff) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.GetByID")
	s, ok := r.f.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r fakeStaff) GetByName(ctx context.Context, name string) (*models.Staff, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.GetByName")
	for _, s := range r.f.staff {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeStaff) List(ctx context.Context, filters repositories.StaffFilters) ([]*models.Staff, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.List")
	var out []*models.Staff
	for _, s := range r.f.staff {
		if filters.Role != nil && s.Role != *filters.Role {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r fakeStaff) UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.Staff, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.UpdateRole")
	s, ok := r.f.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	s.Role = role
	cp := *s
	return &cp, nil
}

func (r fakeStaff) Delete(ctx context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.Delete")
	if _, ok := r.f.staff[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.staff, id)
	return nil
}

func (r fakeStaff) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("staff.ExistsByEmail")
	for _, s := range r.f.staff {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeStaff) Count(ctx context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.staff)), nil
}

// ===== courses =====

type fakeCourses struct{ f *fakeRepo }

func (r fakeCourses) Create(ctx context.Context, c *models.Course) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.Create")
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	cp := *c
	r.f.courses[c.ID] = &cp
	return nil
}

func (r fakeCourses) GetByID(ctx context.Context, id string) (*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.GetByID")
	c, ok := r.f.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeCourses) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.List")
	var out []*models.Course
	for _, c := range r.f.courses {
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return page(out, filters.Limit, filters.Offset), int64(len(out)), nil
}

func (r fakeCourses) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Course, error) {
	r.f.mu.Lock()
	c, ok := r.f.courses[id]
	r.f.called("course.Update")
	if ok {
		applyCourseColumns(c, columns)
	}
	r.f.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r fakeCourses) Delete(ctx context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.Delete")
	if _, ok := r.f.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.courses, id)
	return nil
}

func (r fakeCourses) UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.UpdateMany")
	var n int64
	for _, id := range ids {
		if c, ok := r.f.courses[id]; ok {
			applyCourseColumns(c, columns)
			n++
		}
	}
	return n, nil
}

func (r fakeCourses) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("course.DeleteMany")
	var n int64
	for _, id := range ids {
		if _, ok := r.f.courses[id]; ok {
			delete(r.f.courses, id)
			n++
		}
	}
	return n, nil
}

func (r fakeCourses) Count(ctx context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.courses)), nil
}

func applyCourseColumns(c *models.Course, columns map[string]interface{}) {
	for col, v := range columns {
		s, _ := v.(string)
		switch col {
		case "title":
			c.Title = s
		case "total_fee":
			c.TotalFee = s
		case "duration":
			c.Duration = s
		case "category":
			c.Category = s
		case "status":
			c.Status = models.CourseStatus(s)
		case "image":
			c.Image = s
		}
	}
}

// ===== blogs =====

type fakeBlogs struct{ f *fakeRepo }

func (r fakeBlogs) Create(ctx context.Context, b *models.Blog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.blogs {
		if existing.Slug == b.Slug {
			return &repositories.DuplicateError{Field: "slug"}
		}
	}
	b.ID = uuid.NewString()
	cp := *b
	r.f.blogs[b.ID] = &cp
	return nil
}

func (r fakeBlogs) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	b, ok := r.f.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r fakeBlogs) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, b := range r.f.blogs {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeBlogs) List(ctx context.Context, filters repositories.BlogFilters) ([]*models.Blog, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Blog
	for _, b := range r.f.blogs {
		cp := *b
		out = append(out, &cp)
	}
	return page(out, filters.Limit, filters.Offset), int64(len(out)), nil
}

func (r fakeBlogs) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Blog, error) {
	r.f.mu.Lock()
	b, ok := r.f.blogs[id]
	if ok {
		for col, v := range columns {
			s, _ := v.(string)
			switch col {
			case "title":
				b.Title = s
			case "excerpt":
				b.Excerpt = s
			case "content":
				b.Content = s
			case "image":
				b.Image = s
			}
		}
	}
	r.f.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r fakeBlogs) Delete(ctx context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.blogs, id)
	return nil
}

func (r fakeBlogs) Count(ctx context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.blogs)), nil
}

// ===== videos =====

type fakeVideos struct{ f *fakeRepo }

func (r fakeVideos) Create(ctx context.Context, v *models.Video) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	v.ID = uuid.NewString()
	cp := *v
	r.f.videos[v.ID] = &cp
	return nil
}

func (r fakeVideos) GetByID(ctx context.Context, id string) (*models.Video, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	v, ok := r.f.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r fakeVideos) List(ctx context.Context, filters repositories.VideoFilters) ([]*models.Video, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Video
	for _, v := range r.f.videos {
		cp := *v
		out = append(out, &cp)
	}
	return page(out, filters.Limit, filters.Offset), int64(len(out)), nil
}

func (r fakeVideos) Delete(ctx context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.videos, id)
	return nil
}

func (r fakeVideos) Count(ctx context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.videos)), nil
}

// ===== registrations =====

type fakeRegistrations struct{ f *fakeRepo }

func (r fakeRegistrations) Create(ctx context.Context, reg *models.Registration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("registration.Create")
	for _, existing := range r.f.registrations {
		if existing.AadharCardNo == reg.AadharCardNo {
			return &repositories.DuplicateError{Field: "aadharCardNo", Constraint: "idx_registrations_aadhar_card_no"}
		}
		if existing.PhoneNo == reg.PhoneNo {
			return &repositories.DuplicateError{Field: "phoneNo", Constraint: "idx_registrations_phone_no"}
		}
	}
	reg.ID = uuid.NewString()
	reg.CreatedAt = time.Now()
	cp := *reg
	r.f.registrations[reg.ID] = &cp
	return nil
}

func (r fakeRegistrations) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	reg, ok := r.f.registrations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r fakeRegistrations) List(ctx context.Context, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("registration.List")
	var out []*models.Registration
	for _, reg := range r.f.registrations {
		if filters.PaymentStatus != nil && reg.PaymentStatus != *filters.PaymentStatus {
			continue
		}
		if filters.CourseName != nil && reg.CourseName != *filters.CourseName {
			continue
		}
		cp := *reg
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, filters.Limit, filters.Offset), int64(len(out)), nil
}

func (r fakeRegistrations) Update(ctx context.Context, id string, columns map[string]interface{}) (*models.Registration, error) {
	r.f.mu.Lock()
	reg, ok := r.f.registrations[id]
	if ok {
		applyRegistrationColumns(reg, columns)
	}
	r.f.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r fakeRegistrations) Delete(ctx context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.registrations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.registrations, id)
	return nil
}

func (r fakeRegistrations) UpdateMany(ctx context.Context, ids []string, columns map[string]interface{}) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("registration.UpdateMany")
	var n int64
	for _, id := range ids {
		if reg, ok := r.f.registrations[id]; ok {
			applyRegistrationColumns(reg, columns)
			n++
		}
	}
	return n, nil
}

func (r fakeRegistrations) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.called("registration.DeleteMany")
	var n int64
	for _, id := range ids {
		if _, ok := r.f.registrations[id]; ok {
			delete(r.f.registrations, id)
			n++
		}
	}
	return n, nil
}

func (r fakeRegistrations) Count(ctx context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.registrations)), nil
}

func applyRegistrationColumns(reg *models.Registration, columns map[string]interface{}) {
	for col, v := range columns {
		s, _ := v.(string)
		switch col {
		case "name":
			reg.Name = s
		case "course_name":
			reg.CourseName = s
		case "payment_status":
			reg.PaymentStatus = models.PaymentStatus(s)
		case "address":
			reg.Address = s
		}
	}
}

// ===== dashboard =====

type fakeDashboard struct{ f *fakeRepo }

func (r fakeDashboard) CountRegistrationsByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make(map[string]int64)
	for _, reg := range r.f.registrations {
		out[string(reg.PaymentStatus)]++
	}
	return out, nil
}

func (r fakeDashboard) CountCoursesByStatus(ctx context.Context) (map[string]int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make(map[string]int64)
	for _, c := range r.f.courses {
		out[string(c.Status)]++
	}
	return out, nil
}

func (r fakeDashboard) CountRegistrationsSince(ctx context.Context, days int) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	since := time.Now().AddDate(0, 0, -days)
	var n int64
	for _, reg := range r.f.registrations {
		if reg.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

var testValidator = validator.New()
