package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/validator"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// Slugify lower-cases title, turns whitespace runs into "-" and strips every
// other non-word character.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

var blogConflictMessages = map[string]string{
	"slug": "A blog with this title already exists",
}

type blogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBlogService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) BlogService {
	return &blogService{repo: repo, logger: logger, validator: validator}
}

func (s *blogService) Create(ctx context.Context, req *CreateBlogRequest) (*models.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:   strings.TrimSpace(req.Title),
		Slug:    Slugify(req.Title),
		Excerpt: strings.TrimSpace(req.Excerpt),
		Content: req.Content,
		Image:   strings.TrimSpace(req.Image),
	}
	if blog.Slug == "" {
		return nil, validator.ValidationErrors{{Field: "title", Message: "must contain at least one letter or digit", Rule: "slug"}}
	}

	if err := s.repo.Blog().Create(ctx, blog); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, conflictFrom(err, blogConflictMessages)
		}
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.logger.Info("Blog created", "blog_id", blog.ID, "slug", blog.Slug)
	return blog, nil
}

func (s *blogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.repo.Blog().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return blog, nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	blog, err := s.repo.Blog().GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return blog, nil
}

func (s *blogService) List(ctx context.Context, req *PageQuery) (*ListResult[models.Blog], error) {
	page, limit, offset := req.normalize()

	blogs, total, err := s.repo.Blog().List(ctx, repositories.BlogFilters{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	return &ListResult[models.Blog]{Data: blogs, Pagination: NewPagination(page, limit, total)}, nil
}

// Update edits title, excerpt, content and image. The slug stays as created so
// published links keep working.
func (s *blogService) Update(ctx context.Context, id string, req *UpdateBlogRequest) (*models.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	columns := make(map[string]interface{})
	if v := trimmed(req.Title); v != nil {
		columns["title"] = *v
	}
	if v := trimmed(req.Excerpt); v != nil {
		columns["excerpt"] = *v
	}
	if req.Content != nil {
		columns["content"] = *req.Content
	}
	if v := trimmed(req.Image); v != nil {
		columns["image"] = *v
	}

	blog, err := s.repo.Blog().Update(ctx, id, columns)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}

	s.logger.Info("Blog updated", "blog_id", id)
	return blog, nil
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Blog().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	s.logger.Info("Blog deleted", "blog_id", id)
	return nil
}
