package repository

import (
	"context"

	"mediastore/internal/dto"
	"mediastore/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID uint) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error)
	FindByMediaKey(ctx context.Context, mediaKey string) (*model.Product, error)
	Search(ctx context.Context, filter dto.ProductFilter) ([]*model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	MimeTypes(ctx context.Context) ([]string, error)
	UpdateStock(ctx context.Context, productID uint, stock int) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, productID).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, productID).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) FindByMediaKey(ctx context.Context, mediaKey string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("media_key = ?", mediaKey).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) Search(ctx context.Context, filter dto.ProductFilter) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Query != "" {
		q = q.Where("title LIKE ?", "%"+filter.Query+"%")
	}
	if filter.MinPriceCents != nil {
		q = q.Where("price_cents >= ?", *filter.MinPriceCents)
	}
	if filter.MaxPriceCents != nil {
		q = q.Where("price_cents <= ?", *filter.MaxPriceCents)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MediaTypePrefix != "" {
		q = q.Where("mime_type LIKE ?", filter.MediaTypePrefix+"%")
	}

	var products []*model.Product
	err := q.Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *productRepoImpl) MimeTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "mime_type")
}

func (r *productRepoImpl) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct(column).
		Where(column+" <> ''").
		Pluck(column, &values).Error

	if err != nil {
		return nil, err
	}

	return values, nil
}

func (r *productRepoImpl) UpdateStock(ctx context.Context, productID uint, stock int) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", stock)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
