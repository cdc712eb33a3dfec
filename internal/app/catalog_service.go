package app

import (
	"context"
	"fmt"

	"github.com/hneno001/qr-cafe/internal/domain"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogService serves the customer-facing menu.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Menu returns categories in display order, each with its available
// products. Products referencing an unknown category are dropped.
func (s *CatalogService) Menu(ctx context.Context) (domain.Menu, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("list categories: %w", err)
	}
	products, err := s.repo.ListAvailableProducts(ctx)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("list products: %w", err)
	}

	byCategory := make(map[int64][]domain.MenuItem, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], domain.MenuItem{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			SortOrder: p.SortOrder,
		})
	}

	menu := domain.Menu{Categories: make([]domain.MenuCategory, 0, len(categories))}
	for _, c := range categories {
		items := byCategory[c.ID]
		if items == nil {
			items = []domain.MenuItem{}
		}
		menu.Categories = append(menu.Categories, domain.MenuCategory{
			ID:        c.ID,
			Name:      c.Name,
			SortOrder: c.SortOrder,
			Items:     items,
		})
	}
	return menu, nil
}
