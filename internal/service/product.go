package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
	"github.com/kahvecikaan/ecommerce-api/internal/storage"
	"github.com/shopspring/decimal"
)

// Image is an uploaded product picture
type Image struct {
	Filename string
	Content  io.Reader
}

// ProductCache is the read-through cache in front of single-product lookups
type ProductCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Transactor runs fn inside one database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor domain.Principal, req domain.ProductRequest, img *Image) (*domain.ProductView, error)
	UpdateProduct(ctx context.Context, actor domain.Principal, id int64, patch domain.ProductPatch, img *Image) (*domain.ProductView, error)
	DeleteProduct(ctx context.Context, actor domain.Principal, id int64) error

	GetProduct(ctx context.Context, id int64) (*domain.ProductView, error)
	ListProducts(ctx context.Context, actor domain.Principal, sort string, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	FilterProducts(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	SearchProducts(ctx context.Context, query string, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.ProductView, error)
	ProductsByType(ctx context.Context, productType string, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	DisplayOnlyProducts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	PurchasableProducts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.ProductView], error)
	SpecificationsSchema(productType string) (map[string]any, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	orders     repository.OrderRepository
	tx         Transactor
	images     storage.Store
	cache      ProductCache
	eventBus   *events.EventBus[any]
	logger     hclog.Logger
}

// NewProductService wires the product use cases. cache may be nil.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	orders repository.OrderRepository,
	tx Transactor,
	images storage.Store,
	cache ProductCache,
	eventBus *events.EventBus[any],
	logger hclog.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		orders:     orders,
		tx:         tx,
		images:     images,
		cache:      cache,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, actor domain.Principal, req domain.ProductRequest, img *Image) (*domain.ProductView, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can create products")
	}
	s.logger.Debug("Adding new product", "code", req.ProductCode, "type", req.Type)

	fields, err := domain.ValidateForCreate(req.Type, req.NullPrice(), req.Purchasable, req.Specifications)
	if err != nil {
		return nil, err
	}

	exists, err := s.products.ExistsByCode(ctx, req.ProductCode, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("", "Product code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		ProductCode: req.ProductCode,
		Model:       req.Model,
		Type:        fields.Type,
		Price:       fields.Price,
		Purchasable: fields.Purchasable,
		CategoryID:  req.CategoryID,
	}
	if err := product.SetSpecifications(fields.Specifications); err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.images.Save(ctx, img.Filename, img.Content)
		if err != nil {
			s.logger.Error("Unable to store product image", "code", req.ProductCode, "error", err)
			return nil, err
		}
		product.ImageURL = url
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Unable to add product", "code", req.ProductCode, "error", err)
		s.removeImage(product.ImageURL)
		return nil, err
	}

	s.eventBus.Publish(events.ProductAdded{ProductID: product.ID, Name: product.Name, ActorEmail: actor.Email})

	view := productView(product, s.logger)
	return &view, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor domain.Principal, id int64, patch domain.ProductPatch, img *Image) (*domain.ProductView, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can update products")
	}
	s.logger.Debug("Updating product", "id", id)

	var newImage string
	if img != nil {
		url, err := s.images.Save(ctx, img.Filename, img.Content)
		if err != nil {
			s.logger.Error("Unable to store product image", "id", id, "error", err)
			return nil, err
		}
		newImage = url
	}

	var product *domain.Product
	var oldImage string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		accepted, err := domain.ValidateForUpdate(existing, patch)
		if err != nil {
			return err
		}

		if accepted.ProductCode.Present() && accepted.ProductCode.Value != existing.ProductCode {
			taken, err := s.products.ExistsByCode(ctx, accepted.ProductCode.Value, id)
			if err != nil {
				return err
			}
			if taken {
				return domain.Conflict("", "Product code already exists")
			}
		}

		if accepted.CategoryID.Present() {
			if _, err := s.categories.GetByID(ctx, accepted.CategoryID.Value); err != nil {
				return err
			}
		}

		if err := domain.ApplyPatch(existing, accepted); err != nil {
			return err
		}
		if newImage != "" {
			oldImage = existing.ImageURL
			existing.ImageURL = newImage
		}

		if err := s.products.Save(ctx, existing); err != nil {
			return err
		}
		product = existing
		return nil
	})
	if err != nil {
		s.logger.Error("Unable to update product", "id", id, "error", err)
		s.removeImage(newImage)
		return nil, err
	}

	s.invalidate(ctx, id)
	s.removeImage(oldImage)
	s.eventBus.Publish(events.ProductUpdated{ProductID: id, Name: product.Name, ActorEmail: actor.Email})

	view := productView(product, s.logger)
	return &view, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor domain.Principal, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Only administrators can delete products")
	}
	s.logger.Debug("Deleting product", "id", id)

	var product *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		referenced, err := s.orders.ExistsByProductID(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return domain.Conflict(
				"This product has existing orders. Please archive it instead.",
				"Cannot delete product because it has existing orders",
			)
		}

		if err := s.products.Delete(ctx, id); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		s.logger.Error("Unable to delete product", "id", id, "error", err)
		return err
	}

	s.invalidate(ctx, id)
	s.removeImage(product.ImageURL)
	s.eventBus.Publish(events.ProductDeleted{ProductID: id, Name: product.Name, ActorEmail: actor.Email})
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*domain.ProductView, error) {
	key := productCacheKey(id)
	if s.cache != nil {
		var cached domain.ProductView
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Product cache read failed", "id", id, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := productView(product, s.logger)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view); err != nil {
			s.logger.Warn("Product cache write failed", "id", id, "error", err)
		}
	}
	return &view, nil
}

func (s *productService) ListProducts(ctx context.Context, actor domain.Principal, sort string, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	if !actor.IsAdmin() {
		return domain.Page[domain.ProductView]{}, domain.Forbidden("Only administrators can list all products")
	}

	order, err := domain.ParseProductSort(sort)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}

	items, total, err := s.products.FindAll(ctx, order, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	return domain.NewPage(productViews(items, s.logger), total, page), nil
}

func (s *productService) FilterProducts(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	q, err := domain.ResolveFilter(filter)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	s.logger.Debug("Filtering products", "predicate", q.Kind, "page", page.Page, "size", page.Size)

	items, total, err := s.products.Find(ctx, q, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	return domain.NewPage(productViews(items, s.logger), total, page), nil
}

// SearchProducts tries an exact price match first. Otherwise it merges the
// text and specifications matches, keeping the first occurrence of each product.
func (s *productService) SearchProducts(ctx context.Context, query string, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Page[domain.ProductView]{}, domain.InvalidArgument("Search query must not be empty")
	}

	if price, err := decimal.NewFromString(query); err == nil {
		items, total, err := s.products.FindByPrice(ctx, price, page)
		if err != nil {
			return domain.Page[domain.ProductView]{}, err
		}
		if total > 0 {
			return domain.NewPage(productViews(items, s.logger), total, page), nil
		}
	}

	byText, err := s.products.SearchText(ctx, query, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	bySpecs, err := s.products.SearchSpecifications(ctx, query, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}

	merged := mergeByID(byText, bySpecs)
	if len(merged) == 0 {
		return domain.Page[domain.ProductView]{}, domain.NotFound("No products found matching: %s", query)
	}

	total, err := s.products.CountSearch(ctx, query)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	return domain.NewPage(productViews(merged, s.logger), total, page), nil
}

func (s *productService) ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.ProductView, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	items, err := s.products.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NotFound("No products found for category: %d", categoryID)
	}
	return productViews(items, s.logger), nil
}

// ProductsByType drops rows that contradict their type's rules, such as a
// priced NEW product left over from before the rules existed
func (s *productService) ProductsByType(ctx context.Context, productType string, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	t, err := domain.ParseProductType(productType)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}

	items, total, err := s.products.FindByType(ctx, t, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}

	consistent := items[:0]
	for _, p := range items {
		if typeConsistent(&p) {
			consistent = append(consistent, p)
		}
	}
	if len(consistent) == 0 {
		return domain.Page[domain.ProductView]{}, domain.NotFound("No products found for type: %s", t)
	}
	return domain.NewPage(productViews(consistent, s.logger), total, page), nil
}

func (s *productService) DisplayOnlyProducts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	items, total, err := s.products.FindDisplayOnly(ctx, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	return domain.NewPage(productViews(items, s.logger), total, page), nil
}

func (s *productService) PurchasableProducts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.ProductView], error) {
	items, total, err := s.products.FindPurchasable(ctx, page)
	if err != nil {
		return domain.Page[domain.ProductView]{}, err
	}
	return domain.NewPage(productViews(items, s.logger), total, page), nil
}

func (s *productService) SpecificationsSchema(productType string) (map[string]any, error) {
	t, err := domain.ParseProductType(productType)
	if err != nil {
		return nil, err
	}
	return specificationsSchema(t), nil
}

func specificationsSchema(t domain.ProductType) map[string]any {
	schema := map[string]any{
		"title": fmt.Sprintf("%s product specifications", t),
		"type":  "object",
		"properties": map[string]any{
			"color": map[string]any{
				"type": "string",
				"enum": []string{"red", "blue", "green"},
			},
			"size": map[string]any{
				"type": "string",
				"enum": []string{"S", "M", "L", "XL"},
			},
		},
		"required": []string{"color", "size"},
	}
	if t == domain.ProductTypeReconditioned {
		schema["minProperties"] = 1
	}
	return schema
}

func typeConsistent(p *domain.Product) bool {
	switch p.Type {
	case domain.ProductTypeNew:
		return !p.Price.Valid
	case domain.ProductTypeReconditioned:
		return p.Price.Valid
	case domain.ProductTypePart:
		return p.Purchasable
	default:
		return true
	}
}

func mergeByID(lists ...[]domain.Product) []domain.Product {
	seen := make(map[int64]struct{})
	var out []domain.Product
	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func productViews(products []domain.Product, logger hclog.Logger) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(products))
	for i := range products {
		views = append(views, productView(&products[i], logger))
	}
	return views
}

// productView degrades unreadable specifications to an empty map
func productView(p *domain.Product, logger hclog.Logger) domain.ProductView {
	specs, err := p.SpecificationsMap()
	if err != nil {
		logger.Warn("Unable to parse product specifications", "id", p.ID, "error", err)
	}

	var price *decimal.Decimal
	if p.Price.Valid {
		d := p.Price.Decimal
		price = &d
	}

	return domain.ProductView{
		ID:             p.ID,
		ProductCode:    p.ProductCode,
		Model:          p.Model,
		Name:           p.Name,
		Type:           p.Type,
		Specifications: specs,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		Price:          price,
		Purchasable:    p.Purchasable,
		CategoryID:     p.CategoryID,
		CreatedAt:      p.CreatedAt,
	}
}

func (s *productService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(id)); err != nil {
		s.logger.Warn("Product cache invalidation failed", "id", id, "error", err)
	}
}

func (s *productService) removeImage(url string) {
	if url == "" {
		return
	}
	name := storage.NameFromURL(url)
	if name == "" {
		return
	}
	if err := s.images.Delete(name); err != nil {
		s.logger.Warn("Unable to remove product image", "name", name, "error", err)
	}
}

// productCachePattern matches every cached product view
const productCachePattern = "product:*"

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
