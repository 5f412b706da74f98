package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/llm"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/prompts"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/woocommerce"
)

// textGenerator is the slice of the LLM client the generation routines use.
type textGenerator interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
	CompleteTool(ctx context.Context, messages []llm.Message, name string, schema json.RawMessage, out any) error
}

// catalogWriter pushes generated content back to the e-commerce platform.
type catalogWriter interface {
	UpdateProduct(ctx context.Context, id int64, payload *woocommerce.Product) (*woocommerce.Product, error)
}

// GenerationService runs the per-product content-generation routines. Each
// routine generates copy with the LLM, saves it locally, and pushes it to
// the store.
type GenerationService struct {
	productRepo *repository.ProductRepository
	shopRepo    *repository.ShopRepository
	llm         textGenerator
	logger      *logger.Logger

	// storeFor builds the platform client for one shop; replaced in tests.
	storeFor func(shop *domain.Shop) catalogWriter
}

// NewGenerationService creates a generation service.
func NewGenerationService(
	productRepo *repository.ProductRepository,
	shopRepo *repository.ShopRepository,
	llmClient textGenerator,
	log *logger.Logger,
) *GenerationService {
	return &GenerationService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		llm:         llmClient,
		logger:      log,
		storeFor: func(shop *domain.Shop) catalogWriter {
			return woocommerce.NewClient(&woocommerce.Config{
				BaseURL:        shop.URL,
				ConsumerKey:    shop.ConsumerKey,
				ConsumerSecret: shop.ConsumerSecret,
			})
		},
	}
}

// load fetches the shop and product a routine operates on.
func (s *GenerationService) load(ctx context.Context, shopID, productID string) (*domain.Shop, *domain.Product, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, nil, fmt.Errorf("load shop %s: %w", shopID, err)
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	return shop, product, nil
}

// save pushes the payload to the store, then persists the product locally.
// The store goes first: the local mirror must never hold content the store
// rejected.
func (s *GenerationService) save(ctx context.Context, shop *domain.Shop, product *domain.Product, payload *woocommerce.Product) error {
	if _, err := s.storeFor(shop).UpdateProduct(ctx, product.ExternalID, payload); err != nil {
		return fmt.Errorf("push product %s to store: %w", product.ID, err)
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("save product %s: %w", product.ID, err)
	}
	return nil
}

// FixDescription regenerates the long description. With preserveLinks the
// prompt carries the current description and asks for its anchors back
// verbatim, so a rewrite does not strip the internal links already in place.
func (s *GenerationService) FixDescription(ctx context.Context, shopID, productID string, preserveLinks bool) error {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(prompts.LongDescription, product.Name, product.Category, product.FocusKeyword)
	if preserveLinks && strings.Contains(product.Description, "<a ") {
		prompt += fmt.Sprintf(prompts.KeepExistingLinks, product.Description)
	}
	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return err
	}

	product.Description = text
	return s.save(ctx, shop, product, &woocommerce.Product{Description: text})
}

// FixShortDescription regenerates the listing summary.
func (s *GenerationService) FixShortDescription(ctx context.Context, shopID, productID string) error {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return err
	}

	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: fmt.Sprintf(prompts.ShortDescription, product.Name, product.FocusKeyword)},
	})
	if err != nil {
		return err
	}

	product.ShortDescription = text
	return s.save(ctx, shop, product, &woocommerce.Product{ShortDescription: text})
}

// FixMetaDescription regenerates the SERP snippet, stored as Yoast meta.
func (s *GenerationService) FixMetaDescription(ctx context.Context, shopID, productID string) error {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return err
	}

	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: fmt.Sprintf(prompts.MetaDescription, product.Name, product.FocusKeyword)},
	})
	if err != nil {
		return err
	}

	product.MetaDescription = text
	return s.save(ctx, shop, product, &woocommerce.Product{
		MetaData: []woocommerce.MetaData{{Key: "_yoast_wpseo_metadesc", Value: text}},
	})
}

// altTextSchema is the tool-call schema for alt-text generation: one alt per
// image URL, keyed by src so replies survive reordering.
var altTextSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"images": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"src": {"type": "string"},
					"alt": {"type": "string"}
				},
				"required": ["src", "alt"]
			}
		}
	},
	"required": ["images"]
}`)

// FixAltText regenerates alt texts for every product image.
func (s *GenerationService) FixAltText(ctx context.Context, shopID, productID string) error {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return err
	}
	if len(product.Images) == 0 {
		return nil
	}

	srcs := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		srcs = append(srcs, img.Src)
	}

	var generated struct {
		Images []struct {
			Src string `json:"src"`
			Alt string `json:"alt"`
		} `json:"images"`
	}
	err = s.llm.CompleteTool(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: fmt.Sprintf(prompts.AltText, product.Name, product.Category, strings.Join(srcs, "\n"))},
	}, "set_alt_texts", altTextSchema, &generated)
	if err != nil {
		return err
	}

	bySrc := make(map[string]string, len(generated.Images))
	for _, g := range generated.Images {
		bySrc[g.Src] = g.Alt
	}
	images := make([]woocommerce.Image, 0, len(product.Images))
	for i := range product.Images {
		if alt, ok := bySrc[product.Images[i].Src]; ok && alt != "" {
			product.Images[i].Alt = alt
		}
		images = append(images, woocommerce.Image{Src: product.Images[i].Src, Alt: product.Images[i].Alt})
	}

	return s.save(ctx, shop, product, &woocommerce.Product{Images: images})
}

// FixInternalLinks asks the model to weave links to related products into
// the description and reports how many anchors were actually added. Zero
// means the links were already in place.
func (s *GenerationService) FixInternalLinks(ctx context.Context, shopID, productID string) (int, error) {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return 0, err
	}

	related, err := s.relatedProducts(ctx, product)
	if err != nil {
		return 0, err
	}
	if len(related) == 0 {
		return 0, nil
	}

	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: fmt.Sprintf(prompts.InternalLinking, product.Name, product.Description, strings.Join(related, "\n"))},
	})
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "NO_CHANGES" {
		return 0, nil
	}

	added := strings.Count(text, "<a ") - strings.Count(product.Description, "<a ")
	if added <= 0 {
		return 0, nil
	}

	product.Description = text
	if err := s.save(ctx, shop, product, &woocommerce.Product{Description: text}); err != nil {
		return 0, err
	}
	return added, nil
}

// Translate rewrites the product copy in the target language.
func (s *GenerationService) Translate(ctx context.Context, shopID, productID, language string, preserveLinks bool) error {
	shop, product, err := s.load(ctx, shopID, productID)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(prompts.Translate, language, product.Description)
	if preserveLinks {
		prompt += prompts.KeepLinksVerbatim
	}
	text, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.SystemWriter},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return err
	}

	product.Description = text
	product.Language = language
	return s.save(ctx, shop, product, &woocommerce.Product{Description: text})
}

// relatedProducts lists up to five same-category siblings as "name | url"
// lines for the internal-linking prompt.
func (s *GenerationService) relatedProducts(ctx context.Context, product *domain.Product) ([]string, error) {
	products, err := s.productRepo.ListByShop(ctx, product.ShopID)
	if err != nil {
		return nil, err
	}

	var related []string
	for _, p := range products {
		if p.ID == product.ID || p.Category != product.Category || p.Slug == "" {
			continue
		}
		related = append(related, fmt.Sprintf("%s | /produit/%s", p.Name, p.Slug))
		if len(related) == 5 {
			break
		}
	}
	return related, nil
}
