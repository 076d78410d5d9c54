package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService struct {
	repo     CatalogRepository
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewCatalogService(repo CatalogRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		now:      time.Now,
	}
}

// Seed loads the default menu into an empty catalog and fills in any
// category without stored presentation.
func (s *CatalogService) Seed(ctx context.Context) error {
	dishes, err := s.repo.ListDishes(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if len(dishes) == 0 {
		for _, dish := range DefaultMenu() {
			dish.UpdatedAt = s.now()
			if err := s.repo.UpsertDish(ctx, &dish); err != nil {
				return fmt.Errorf("seed dish %s: %w", dish.ID, err)
			}
		}
		s.log.Info("catalog_seeded", zap.Int("dishes", len(DefaultMenu())))
	}

	stored, err := s.repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	have := make(map[domain.Category]bool, len(stored))
	for _, info := range stored {
		have[info.ID] = true
	}
	for _, info := range DefaultCategories() {
		if have[info.ID] {
			continue
		}
		if err := s.repo.UpsertCategory(ctx, info); err != nil {
			return fmt.Errorf("seed category %s: %w", info.ID, err)
		}
	}
	return nil
}

func (s *CatalogService) ListDishes(ctx context.Context, category *domain.Category) ([]domain.Dish, error) {
	dishes, err := s.repo.ListDishes(ctx)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return dishes, nil
	}
	filtered := make([]domain.Dish, 0, len(dishes))
	for _, dish := range dishes {
		if dish.Category == *category {
			filtered = append(filtered, dish)
		}
	}
	return filtered, nil
}

func (s *CatalogService) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	return s.repo.GetDish(ctx, id)
}

// UpsertDish replaces the dish with the same id or inserts a new one. Orders
// already placed keep their own copies and are not affected.
func (s *CatalogService) UpsertDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	dish.Name = strings.TrimSpace(dish.Name)
	if err := s.validate.Struct(dish); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}
	if dish.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if dish.ID == "" {
		dish.ID = fmt.Sprintf("%s-%s", dish.Category, uuid.NewString()[:8])
	}
	dish.UpdatedAt = s.now()

	if err := s.repo.UpsertDish(ctx, dish); err != nil {
		return nil, err
	}
	s.log.Debug("dish_upserted", zap.String("dish_id", dish.ID))
	return dish, nil
}

func (s *CatalogService) SetAvailability(ctx context.Context, id string, available bool) error {
	dish, err := s.repo.GetDish(ctx, id)
	if err != nil {
		return err
	}
	dish.Available = available
	dish.UpdatedAt = s.now()
	return s.repo.UpsertDish(ctx, dish)
}

func (s *CatalogService) RemoveDish(ctx context.Context, id string) error {
	return s.repo.DeleteDish(ctx, id)
}

// ListCategories returns every fixed category in browsing order, using the
// stored presentation where there is one.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.CategoryInfo, error) {
	stored, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[domain.Category]domain.CategoryInfo, len(stored))
	for _, info := range stored {
		byID[info.ID] = info
	}

	categories := DefaultCategories()
	for i, info := range categories {
		if custom, ok := byID[info.ID]; ok {
			categories[i] = custom
		}
	}
	return categories, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id domain.Category, displayName, icon string) (*domain.CategoryInfo, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, id)
	}
	info := domain.CategoryInfo{ID: id, DisplayName: strings.TrimSpace(displayName), Icon: icon}
	if err := s.validate.Struct(info); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}
	if err := s.repo.UpsertCategory(ctx, info); err != nil {
		return nil, err
	}
	return &info, nil
}

// describeValidation flattens validator errors into "field: tag" pairs.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
