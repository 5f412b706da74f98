package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/woocommerce"
)

// syncPageSize is the WooCommerce pagination size used during catalog sync.
const syncPageSize = 100

// storeClient is the read-only slice of the platform client the sync and
// overview paths use.
type storeClient interface {
	ListProducts(ctx context.Context, page, perPage int) ([]woocommerce.Product, error)
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
	ListCategories(ctx context.Context, page, perPage int) ([]woocommerce.Category, error)
	ListOrders(ctx context.Context, page, perPage int, after time.Time) ([]woocommerce.Order, error)
}

// SyncService mirrors a store's catalog into the local product table so
// diagnostics and generation work on a consistent snapshot instead of
// hammering the store API.
type SyncService struct {
	productRepo *repository.ProductRepository
	shopRepo    *repository.ShopRepository
	logger      *logger.Logger

	// storeFor builds the platform client for one shop; replaced in tests.
	storeFor func(shop *domain.Shop) storeClient
}

// NewSyncService creates a catalog sync service.
func NewSyncService(productRepo *repository.ProductRepository, shopRepo *repository.ShopRepository, log *logger.Logger) *SyncService {
	return &SyncService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		logger:      log,
		storeFor: func(shop *domain.Shop) storeClient {
			return woocommerce.NewClient(&woocommerce.Config{
				BaseURL:        shop.URL,
				ConsumerKey:    shop.ConsumerKey,
				ConsumerSecret: shop.ConsumerSecret,
			})
		},
	}
}

// Sync pulls every product of the shop and upserts it locally, keyed by the
// store-side product ID. Returns the number of products synced.
func (s *SyncService) Sync(ctx context.Context, shopID string) (int, error) {
	ctx = logger.SetShopID(ctx, shopID)
	start := time.Now()

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return 0, fmt.Errorf("load shop %s: %w", shopID, err)
	}
	store := s.storeFor(shop)

	synced := 0
	for page := 1; ; page++ {
		products, err := store.ListProducts(ctx, page, syncPageSize)
		if err != nil {
			return synced, fmt.Errorf("list products page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}
		for _, wp := range products {
			product := mapProduct(shop, wp)
			if err := s.productRepo.Upsert(ctx, product); err != nil {
				return synced, fmt.Errorf("upsert product %d: %w", wp.ID, err)
			}
			synced++
		}
		if len(products) < syncPageSize {
			break
		}
	}

	logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
		WithCount(synced).
		Info(ctx, "Catalog sync completed")
	return synced, nil
}

// SyncProduct refreshes one product from the store, keyed by its store-side
// ID. Used after an external edit so the local mirror catches up without a
// full catalog sync.
func (s *SyncService) SyncProduct(ctx context.Context, shopID string, externalID int64) (*domain.Product, error) {
	ctx = logger.SetShopID(ctx, shopID)

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("load shop %s: %w", shopID, err)
	}
	wp, err := s.storeFor(shop).GetProduct(ctx, externalID)
	if err != nil {
		return nil, err
	}

	product := mapProduct(shop, *wp)
	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, fmt.Errorf("upsert product %d: %w", externalID, err)
	}
	logger.CtxInfo(ctx, "Product %d refreshed from the store", externalID)
	return product, nil
}

// ShopOverview aggregates store-level figures for the dashboard header.
type ShopOverview struct {
	Products   int64   `json:"products"`
	Categories int     `json:"categories"`
	Orders     int     `json:"orders"`
	Revenue    float64 `json:"revenue"`
	Currency   string  `json:"currency"`
}

// Overview combines the local catalog count with read-only store
// aggregates: category count, plus order count and revenue since the given
// time.
func (s *SyncService) Overview(ctx context.Context, shopID string, since time.Time) (*ShopOverview, error) {
	ctx = logger.SetShopID(ctx, shopID)

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("load shop %s: %w", shopID, err)
	}
	store := s.storeFor(shop)

	overview := &ShopOverview{}
	if overview.Products, err = s.productRepo.CountByShop(ctx, shopID); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	for page := 1; ; page++ {
		categories, err := store.ListCategories(ctx, page, syncPageSize)
		if err != nil {
			return nil, fmt.Errorf("list categories page %d: %w", page, err)
		}
		overview.Categories += len(categories)
		if len(categories) < syncPageSize {
			break
		}
	}

	for page := 1; ; page++ {
		orders, err := store.ListOrders(ctx, page, syncPageSize, since)
		if err != nil {
			return nil, fmt.Errorf("list orders page %d: %w", page, err)
		}
		for _, order := range orders {
			overview.Orders++
			if total, err := strconv.ParseFloat(order.Total, 64); err == nil {
				overview.Revenue += total
			}
			if overview.Currency == "" {
				overview.Currency = order.Currency
			}
		}
		if len(orders) < syncPageSize {
			break
		}
	}

	return overview, nil
}

// mapProduct converts a store payload into a local product row. Yoast SEO
// fields travel in WordPress post meta, not first-class product fields.
func mapProduct(shop *domain.Shop, wp woocommerce.Product) *domain.Product {
	product := &domain.Product{
		ID:               uuid.NewString(),
		ShopID:           shop.ID,
		ExternalID:       wp.ID,
		Name:             wp.Name,
		Slug:             wp.Slug,
		Description:      wp.Description,
		ShortDescription: wp.ShortDescription,
		Language:         shop.Language,
		SyncedAt:         time.Now(),
	}
	if price, err := strconv.ParseFloat(wp.Price, 64); err == nil {
		product.Price = price
	}
	if len(wp.Categories) > 0 {
		product.Category = wp.Categories[0].Name
	}
	for _, img := range wp.Images {
		product.Images = append(product.Images, domain.ProductImage{Src: img.Src, Alt: img.Alt})
	}
	if len(wp.Images) > 0 {
		product.FeaturedImage = wp.Images[0].Src
	}
	for _, meta := range wp.MetaData {
		value, ok := meta.Value.(string)
		if !ok {
			continue
		}
		switch meta.Key {
		case "_yoast_wpseo_title":
			product.MetaTitle = value
		case "_yoast_wpseo_metadesc":
			product.MetaDescription = value
		case "_yoast_wpseo_focuskw":
			product.FocusKeyword = value
		}
	}
	return product
}
