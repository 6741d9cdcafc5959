package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"mediastore/internal/dto"
	"mediastore/internal/model"
	"mediastore/internal/signing"
	"mediastore/internal/storage"

	"go.uber.org/zap"
)

// DownloadTokenMaxAge bounds how long an issued download link stays valid,
// for both local signed tokens and provider-issued URLs.
const DownloadTokenMaxAge = time.Hour

// DownloadSalt scopes download tokens away from every other signing purpose.
const DownloadSalt = "download-link"

var ErrOrderNotPaid = errors.New("order is not paid")

type DownloadService interface {
	DownloadsFor(ctx context.Context, order *model.Order) ([]dto.DownloadLink, error)
	ResolveToken(token string) (string, error)
}

type downloadServiceImpl struct {
	signer  *signing.Signer
	store   storage.Storage
	backend string
	baseURL string
	logger  *zap.Logger
}

func NewDownloadService(signer *signing.Signer, store storage.Storage, backend, baseURL string, logger *zap.Logger) DownloadService {
	return &downloadServiceImpl{
		signer:  signer,
		store:   store,
		backend: backend,
		baseURL: baseURL,
		logger:  logger,
	}
}

// DownloadsFor issues one time-limited link per purchased item. Only paid
// orders qualify; everything else is refused outright.
func (s *downloadServiceImpl) DownloadsFor(ctx context.Context, order *model.Order) ([]dto.DownloadLink, error) {
	if order.Status != model.StatusPaid {
		return nil, ErrOrderNotPaid
	}

	links := make([]dto.DownloadLink, 0, len(order.Items))
	for _, item := range order.Items {
		link, err := s.linkFor(ctx, &item.Product)
		if err != nil {
			return nil, fmt.Errorf("issue download link for product %d: %w", item.ProductID, err)
		}
		links = append(links, dto.DownloadLink{
			Title: item.Product.Title,
			URL:   link,
		})
	}

	return links, nil
}

func (s *downloadServiceImpl) linkFor(ctx context.Context, product *model.Product) (string, error) {
	if s.backend == storage.BackendLocal {
		token, err := s.signer.Issue(product.MediaKey)
		if err != nil {
			return "", err
		}
		return s.baseURL + "/download?token=" + url.QueryEscape(token), nil
	}

	// remote backends mint their own temporary URL; no token codec involved
	return s.store.SignedURL(ctx, product.MediaKey, DownloadTokenMaxAge)
}

// ResolveToken verifies a local download token and returns the media key it
// grants. Tampered and expired tokens are indistinguishable to the caller.
func (s *downloadServiceImpl) ResolveToken(token string) (string, error) {
	return s.signer.Verify(token, DownloadTokenMaxAge)
}
