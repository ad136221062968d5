package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sitepages/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound      = errors.New("page not found")
	ErrPageSlugTaken     = errors.New("a page with this slug already exists")
	ErrPageTitleRequired = errors.New("page title is required")
	ErrPageSlugRequired  = errors.New("page slug is required")
)

// PageInput carries the mutable fields of a page.
// IsPublished is ignored by Create, which always publishes.
type PageInput struct {
	Title           string
	Slug            string
	Content         string
	MetaDescription string
	IsPublished     bool
}

// PageService is the only writer of page rows.
type PageService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{
		db:  gdb,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// List returns every page, newest first.
func (s *PageService) List(ctx context.Context) ([]db.Page, error) {
	pages := make([]db.Page, 0)
	if err := s.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// ListPublished returns published pages, newest first.
func (s *PageService) ListPublished(ctx context.Context) ([]db.Page, error) {
	pages := make([]db.Page, 0)
	if err := s.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at desc").
		Order("id desc").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list published pages: %w", err)
	}
	return pages, nil
}

// GetByID fetches a page by its id.
func (s *PageService) GetByID(ctx context.Context, id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page %d: %w", id, err)
	}
	return &page, nil
}

// GetBySlug fetches a page for a given slug. Matching is exact and case-sensitive.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return &page, nil
}

// Create inserts a published page.
func (s *PageService) Create(ctx context.Context, input PageInput) (*db.Page, error) {
	if err := validatePageInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	page := db.Page{
		Title:           input.Title,
		Slug:            input.Slug,
		Content:         input.Content,
		MetaDescription: input.MetaDescription,
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPageSlugTaken
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &page, nil
}

// Update replaces every mutable field of the page and refreshes updated_at.
func (s *PageService) Update(ctx context.Context, id uint, input PageInput) (*db.Page, error) {
	if err := validatePageInput(input); err != nil {
		return nil, err
	}

	return s.updateColumns(ctx, id, map[string]interface{}{
		"title":            input.Title,
		"slug":             input.Slug,
		"content":          input.Content,
		"meta_description": input.MetaDescription,
		"is_published":     input.IsPublished,
	})
}

// UpdateContent replaces only the content of the page.
func (s *PageService) UpdateContent(ctx context.Context, id uint, content string) (*db.Page, error) {
	return s.updateColumns(ctx, id, map[string]interface{}{
		"content": content,
	})
}

// Delete removes the page permanently and returns the removed row.
func (s *PageService) Delete(ctx context.Context, id uint) (*db.Page, error) {
	var deleted db.Page
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&deleted).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&db.Page{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("delete page %d: %w", id, err)
	}
	return &deleted, nil
}

// updateColumns writes the given columns plus updated_at and reads the row back
// in the same transaction so callers see what was stored.
func (s *PageService) updateColumns(ctx context.Context, id uint, columns map[string]interface{}) (*db.Page, error) {
	columns["updated_at"] = s.now()

	var page db.Page
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Page{}).Where("id = ?", id).Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).Take(&page).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrPageNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrPageSlugTaken
		}
		return nil, fmt.Errorf("update page %d: %w", id, err)
	}
	return &page, nil
}

func validatePageInput(input PageInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrPageTitleRequired
	}
	if strings.TrimSpace(input.Slug) == "" {
		return ErrPageSlugRequired
	}
	return nil
}
