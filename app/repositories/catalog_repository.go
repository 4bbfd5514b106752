package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/pkg/orm"
)

// Cache keys of the catalog listings. Any catalog write drops both, since
// product listings embed category names.
const (
	CategoriesCacheKey = "catalog:categories"
	ProductsCacheKey   = "catalog:products"
)

var catalogKeys = []string{CategoriesCacheKey, ProductsCacheKey}

type catalog struct {
	db    *gorm.DB
	cache orm.Cacher
	ttl   time.Duration
}

func (c catalog) query(ctx context.Context) *orm.Query {
	q := orm.On(c.db).WithContext(ctx)
	if c.cache != nil {
		q = q.WithCache(c.cache)
	}
	return q
}

func (c catalog) forget(ctx context.Context) {
	_ = c.query(ctx).Forget(catalogKeys...)
}

// ─── Categories ───────────────────────────────────────────────────────────────

type CategoryRepository struct {
	catalog
}

// NewCategoryRepository builds the repository. cache may be nil.
func NewCategoryRepository(db *gorm.DB, cache orm.Cacher, ttl time.Duration) *CategoryRepository {
	return &CategoryRepository{catalog{db: db, cache: cache, ttl: ttl}}
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.query(ctx).Model(&models.Category{}).Order("id").Cache(CategoriesCacheKey, r.ttl, &categories)
	return categories, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.query(ctx).Model(&models.Category{}).Where("id = ?", id).First(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.query(ctx).Model(&models.Category{}).Where("name = ?", name).First(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.query(ctx).Create(category); err != nil {
		return err
	}
	r.forget(ctx)
	return nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *models.Category) error {
	if err := r.query(ctx).Save(category); err != nil {
		return err
	}
	r.forget(ctx)
	return nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

type ProductRepository struct {
	catalog
}

// NewProductRepository builds the repository. cache may be nil.
func NewProductRepository(db *gorm.DB, cache orm.Cacher, ttl time.Duration) *ProductRepository {
	return &ProductRepository{catalog{db: db, cache: cache, ttl: ttl}}
}

// All lists products with their category.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.query(ctx).Model(&models.Product{}).Preload("Category").Order("id").Cache(ProductsCacheKey, r.ttl, &products)
	return products, err
}

// FindByID loads one product with its category.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.query(ctx).Model(&models.Product{}).Preload("Category").Where("id = ?", id).First(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products whose id is in ids, with their category.
// Unknown ids are skipped.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.query(ctx).Model(&models.Product{}).Preload("Category").Where("id IN ?", ids).Order("id").Get(&products)
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.query(ctx).Omit("Category").Create(product); err != nil {
		return err
	}
	r.forget(ctx)
	return nil
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	if err := r.query(ctx).Omit("Category").Save(product); err != nil {
		return err
	}
	r.forget(ctx)
	return nil
}
