package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)

	FindAll(ctx context.Context, sort domain.ProductSort, page domain.PageRequest) ([]domain.Product, int64, error)
	Find(ctx context.Context, q domain.ProductQuery, page domain.PageRequest) ([]domain.Product, int64, error)
	FindByPrice(ctx context.Context, price decimal.Decimal, page domain.PageRequest) ([]domain.Product, int64, error)
	SearchText(ctx context.Context, text string, page domain.PageRequest) ([]domain.Product, error)
	SearchSpecifications(ctx context.Context, text string, page domain.PageRequest) ([]domain.Product, error)
	CountSearch(ctx context.Context, text string) (int64, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	FindPurchasableByCategory(ctx context.Context, categoryID int64, page domain.PageRequest) ([]domain.Product, int64, error)
	FindByType(ctx context.Context, t domain.ProductType, page domain.PageRequest) ([]domain.Product, int64, error)
	FindDisplayOnly(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error)
	FindPurchasable(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := conn(ctx, r.db).Create(product).Error; err != nil {
		return translate(err, "failed to create product")
	}
	return nil
}

func (r *gormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := conn(ctx, r.db).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Product not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *gormProductRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	db := conn(ctx, r.db)
	if inTx(ctx) && r.db.Dialector.Name() != DriverSQLite {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product domain.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Product not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	return &product, nil
}

func (r *gormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := conn(ctx, r.db).Save(product).Error; err != nil {
		return translate(err, "failed to save product")
	}
	return nil
}

func (r *gormProductRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&domain.Product{}, id)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return productHasOrders()
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("Product not found with id: %d", id)
	}
	return nil
}

func (r *gormProductRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int64
	q := conn(ctx, r.db).Model(&domain.Product{}).Where("product_code = ?", code)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product code: %w", err)
	}
	return count > 0, nil
}

func (r *gormProductRepository) FindAll(ctx context.Context, sort domain.ProductSort, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, sort, func(db *gorm.DB) *gorm.DB { return db })
}

// Find executes a resolved filter predicate
func (r *gormProductRepository) Find(ctx context.Context, q domain.ProductQuery, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Scopes(queryScope(q))
	})
}

func (r *gormProductRepository) FindByPrice(ctx context.Context, price decimal.Decimal, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Where("price = ?", price)
	})
}

func (r *gormProductRepository) SearchText(ctx context.Context, text string, page domain.PageRequest) ([]domain.Product, error) {
	var products []domain.Product
	err := conn(ctx, r.db).
		Scopes(matchesText(text)).
		Order("id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (r *gormProductRepository) SearchSpecifications(ctx context.Context, text string, page domain.PageRequest) ([]domain.Product, error) {
	var products []domain.Product
	err := conn(ctx, r.db).
		Scopes(matchesSpecifications(text)).
		Order("id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search specifications: %w", err)
	}
	return products, nil
}

// CountSearch counts products matching either the text or the specifications
// predicate, each product once
func (r *gormProductRepository) CountSearch(ctx context.Context, text string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Product{}).
		Where("("+textMatchSQL+") OR "+specsMatchSQL, sql.Named("q", likePattern(text))).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

func (r *gormProductRepository) FindByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	var products []domain.Product
	if err := conn(ctx, r.db).Where("category_id = ?", categoryID).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	return products, nil
}

func (r *gormProductRepository) FindPurchasableByCategory(ctx context.Context, categoryID int64, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ? AND purchasable = ?", categoryID, true)
	})
}

func (r *gormProductRepository) FindByType(ctx context.Context, t domain.ProductType, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ?", t)
	})
}

// FindDisplayOnly returns NEW products that cannot be bought
func (r *gormProductRepository) FindDisplayOnly(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ? AND purchasable = ?", domain.ProductTypeNew, false)
	})
}

func (r *gormProductRepository) FindPurchasable(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	return r.paged(ctx, page, domain.DefaultProductSort, func(db *gorm.DB) *gorm.DB {
		return db.Where("purchasable = ?", true)
	})
}

// paged runs the same predicate twice, once for the total and once for the page
func (r *gormProductRepository) paged(
	ctx context.Context,
	page domain.PageRequest,
	sort domain.ProductSort,
	where func(*gorm.DB) *gorm.DB,
) ([]domain.Product, int64, error) {
	var total int64
	if err := where(conn(ctx, r.db).Model(&domain.Product{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []domain.Product
	err := where(conn(ctx, r.db)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Column}, Desc: sort.Desc}).
		Offset(page.Offset()).Limit(page.Size).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func queryScope(q domain.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch q.Kind {
		case domain.PredicateType:
			return db.Where("type = ?", q.Type)
		case domain.PredicatePurchasable:
			return db.Where("purchasable = ?", q.Purchasable)
		case domain.PredicateTypePurchasable:
			return db.Where("type = ? AND purchasable = ?", q.Type, q.Purchasable)
		case domain.PredicatePriceRange:
			return db.Where("price BETWEEN ? AND ?", q.MinPrice, q.MaxPrice)
		case domain.PredicateTypePriceRange:
			return db.Where("type = ? AND price BETWEEN ? AND ?", q.Type, q.MinPrice, q.MaxPrice)
		case domain.PredicatePurchasablePriceRange:
			return db.Where("purchasable = ? AND price BETWEEN ? AND ?", q.Purchasable, q.MinPrice, q.MaxPrice)
		case domain.PredicateTypePurchasablePriceRange:
			return db.Where("type = ? AND purchasable = ? AND price BETWEEN ? AND ?", q.Type, q.Purchasable, q.MinPrice, q.MaxPrice)
		default:
			return db
		}
	}
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func likePattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}

const (
	likeQ        = `LIKE @q ESCAPE '\'`
	textMatchSQL = "LOWER(name) " + likeQ + " OR LOWER(description) " + likeQ + " OR LOWER(product_code) " + likeQ +
		" OR LOWER(model) " + likeQ + " OR LOWER(type) " + likeQ
	specsMatchSQL = "LOWER(CAST(specifications AS TEXT)) " + likeQ
)

func matchesText(text string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(textMatchSQL, sql.Named("q", likePattern(text)))
	}
}

func matchesSpecifications(text string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(specsMatchSQL, sql.Named("q", likePattern(text)))
	}
}

func productHasOrders() error {
	return domain.Conflict(
		"This product has existing orders. Please archive it instead.",
		"Cannot delete product because it has existing orders",
	)
}

// translate maps driver errors that gorm normalizes onto domain kinds
func translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict("", "Product code already exists")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
