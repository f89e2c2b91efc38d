package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rental-manager/feature/inventory/models"
)

// ErrNotFound means no material exists for the requested identifier.
var ErrNotFound = errors.New("material not found")

// MaterialPage is one page of the materials listing.
type MaterialPage struct {
	Items      []models.Material `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// CategoryCount is a category with the number of materials in it.
type CategoryCount struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	MaterialCount int64  `json:"material_count"`
}

// ListParams narrows and paginates the materials listing.
type ListParams struct {
	Search     string
	CategoryID uint
	ParkID     uint
	Page       int
	PageSize   int
}

// Service handles catalog reads.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// List returns a page of materials. Search matches names and
// references, case-insensitively.
func (s *Service) List(ctx context.Context, params ListParams) (*MaterialPage, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 25
	}

	query := s.db.WithContext(ctx).Model(&models.Material{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR reference LIKE ?", pattern, pattern)
	}
	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.ParkID > 0 {
		query = query.Where("park_id = ?", params.ParkID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count materials: %w", err)
	}

	var items []models.Material
	err := query.
		Preload("Category").
		Preload("Park").
		Order("reference").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	return &MaterialPage{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetOne returns one material with its category, park and units.
func (s *Service) GetOne(ctx context.Context, id uint) (*models.Material, error) {
	var material models.Material
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Park").
		Preload("Units").
		First(&material, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load material %d: %w", id, err)
	}
	return &material, nil
}

// Categories lists all categories with their material counts.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, COUNT(materials.id) AS material_count").
		Joins("LEFT JOIN materials ON materials.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.name").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return counts, nil
}
