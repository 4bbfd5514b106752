package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/pkg/logger"
	"github.com/shashiranjanraj/devburger/pkg/orm"
)

// ImageStore keeps uploaded catalog images.
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, key string) error
}

// dropImage removes an image that no record points at. Failures only log.
func dropImage(ctx context.Context, images ImageStore, key string) {
	if err := images.Delete(ctx, key); err != nil {
		logger.WithCtx(ctx).Warn("catalog: delete image failed", "path", key, "error", err)
	}
}

func categoryConflict(err error) error {
	if errors.Is(err, orm.ErrDuplicate) {
		return ErrCategoryTaken
	}
	return err
}

// ─── Categories ───────────────────────────────────────────────────────────────

type CategoryService struct {
	categories *repositories.CategoryRepository
	images     ImageStore
}

func NewCategoryService(categories *repositories.CategoryRepository, images ImageStore) *CategoryService {
	return &CategoryService{categories: categories, images: images}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.All(ctx)
}

// Create stores the image and the category. The name must be free.
func (s *CategoryService) Create(ctx context.Context, name string, image *multipart.FileHeader) (*models.Category, error) {
	_, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return nil, ErrCategoryTaken
	}
	if !errors.Is(err, orm.ErrNotFound) {
		return nil, err
	}

	path, err := s.images.Save(ctx, image)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Path: path}
	if err := s.categories.Create(ctx, category); err != nil {
		dropImage(ctx, s.images, path)
		return nil, categoryConflict(err)
	}
	return category, nil
}

// CategoryUpdate holds the fields to change. Nil fields are left untouched.
type CategoryUpdate struct {
	Name  *string
	Image *multipart.FileHeader
}

// Update renames the category or replaces its image. Keeping its own name
// is not a conflict.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryUpdate) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		owner, err := s.categories.FindByName(ctx, *in.Name)
		switch {
		case err == nil && owner.ID != category.ID:
			return nil, ErrCategoryTaken
		case err != nil && !errors.Is(err, orm.ErrNotFound):
			return nil, err
		}
		category.Name = *in.Name
	}

	oldPath := ""
	if in.Image != nil {
		path, err := s.images.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		oldPath, category.Path = category.Path, path
	}

	if err := s.categories.Save(ctx, category); err != nil {
		if in.Image != nil {
			dropImage(ctx, s.images, category.Path)
		}
		return nil, categoryConflict(err)
	}
	if oldPath != "" {
		dropImage(ctx, s.images, oldPath)
	}
	return category, nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	images     ImageStore
}

func NewProductService(products *repositories.ProductRepository, categories *repositories.CategoryRepository, images ImageStore) *ProductService {
	return &ProductService{products: products, categories: categories, images: images}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// ProductInput is a validated create request.
type ProductInput struct {
	Name       string
	Price      int64
	CategoryID uint
	Offer      bool
	Image      *multipart.FileHeader
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	category, err := s.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	path, err := s.images.Save(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:       in.Name,
		Price:      in.Price,
		CategoryID: &category.ID,
		Offer:      in.Offer,
		Path:       path,
	}
	if err := s.products.Create(ctx, product); err != nil {
		dropImage(ctx, s.images, path)
		return nil, err
	}
	product.Category = category
	return product, nil
}

// ProductUpdate holds the fields to change. Nil fields are left untouched.
type ProductUpdate struct {
	Name       *string
	Price      *int64
	CategoryID *uint
	Offer      *bool
	Image      *multipart.FileHeader
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductUpdate) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		category, err := s.category(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &category.ID
		product.Category = category
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Offer != nil {
		product.Offer = *in.Offer
	}

	oldPath := ""
	if in.Image != nil {
		path, err := s.images.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		oldPath, product.Path = product.Path, path
	}

	if err := s.products.Save(ctx, product); err != nil {
		if in.Image != nil {
			dropImage(ctx, s.images, product.Path)
		}
		return nil, err
	}
	if oldPath != "" {
		dropImage(ctx, s.images, oldPath)
	}
	return product, nil
}

func (s *ProductService) category(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return category, err
}
