package service

import (
	"context"
	"fmt"

	"mediastore/internal/dto"
	"mediastore/internal/model"
	"mediastore/internal/repository"
	"mediastore/internal/storage"
)

type CatalogService interface {
	Search(ctx context.Context, filter dto.ProductFilter) ([]*model.Product, error)
	Facets(ctx context.Context) (categories, mimeTypes []string, err error)
	Get(ctx context.Context, productID uint) (*model.Product, error)

	CreateProduct(ctx context.Context, in dto.ProductInput, media *dto.Upload, thumbnail *dto.Upload) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID uint, in dto.ProductInput, media *dto.Upload, thumbnail *dto.Upload) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID uint) error
	UpdateStock(ctx context.Context, productID uint, stock int) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	store       storage.Storage
}

func NewCatalogService(productRepo repository.ProductRepository, store storage.Storage) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		store:       store,
	}
}

func (s *catalogServiceImpl) Search(ctx context.Context, filter dto.ProductFilter) ([]*model.Product, error) {
	return s.productRepo.Search(ctx, filter)
}

func (s *catalogServiceImpl) Facets(ctx context.Context) ([]string, []string, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	mimeTypes, err := s.productRepo.MimeTypes(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, mimeTypes, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID uint) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, in dto.ProductInput, media *dto.Upload, thumbnail *dto.Upload) (*model.Product, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if media == nil {
		return nil, fmt.Errorf("media file is required")
	}
	if in.PriceCents < 0 || in.Stock < 0 {
		return nil, fmt.Errorf("price and stock must be non-negative")
	}

	mediaKey, err := s.store.Save(ctx, media.Filename, media.MimeType, media.Reader)
	if err != nil {
		return nil, fmt.Errorf("save media: %w", err)
	}

	product := &model.Product{
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		MediaKey:    mediaKey,
		MimeType:    media.MimeType,
		Stock:       in.Stock,
		Category:    in.Category,
	}

	if thumbnail != nil {
		thumbKey, err := s.store.Save(ctx, thumbnail.Filename, thumbnail.MimeType, thumbnail.Reader)
		if err != nil {
			return nil, fmt.Errorf("save thumbnail: %w", err)
		}
		product.ThumbnailKey = thumbKey
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID uint, in dto.ProductInput, media *dto.Upload, thumbnail *dto.Upload) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		product.Title = in.Title
	}
	product.Description = in.Description
	if in.PriceCents >= 0 {
		product.PriceCents = in.PriceCents
	}
	if in.Stock >= 0 {
		product.Stock = in.Stock
	}
	if in.Category != "" {
		product.Category = in.Category
	}

	if media != nil {
		mediaKey, err := s.store.Save(ctx, media.Filename, media.MimeType, media.Reader)
		if err != nil {
			return nil, fmt.Errorf("save media: %w", err)
		}
		product.MediaKey = mediaKey
		product.MimeType = media.MimeType
	}
	if thumbnail != nil {
		thumbKey, err := s.store.Save(ctx, thumbnail.Filename, thumbnail.MimeType, thumbnail.Reader)
		if err != nil {
			return nil, fmt.Errorf("save thumbnail: %w", err)
		}
		product.ThumbnailKey = thumbKey
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID uint) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogServiceImpl) UpdateStock(ctx context.Context, productID uint, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock must be non-negative")
	}
	return s.productRepo.UpdateStock(ctx, productID, stock)
}
