package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/gentlyhq/gently/internal/database"
)

// Storage provides database access for products, attributes and lookups.
// Methods return (nil, nil) or (false, nil) when the target row does not
// exist; errors are reserved for database failures.
type Storage struct {
	db *database.Connection
}

func NewStorage(db *database.Connection) *Storage {
	return &Storage{db: db}
}

const productColumns = "product_id, product_name, product_description, created_at, updated_at"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ProductID, &p.ProductName, &p.ProductDescription, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a new product and returns it with generated fields.
func (s *Storage) CreateProduct(ctx context.Context, name string, description *string) (*Product, error) {
	query := `
		INSERT INTO products (product_id, product_name, product_description)
		VALUES ($1, $2, $3)
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRow(ctx, query, uuid.NewString(), name, description))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Info().Str("product_id", p.ProductID).Str("product_name", p.ProductName).Msg("product created")
	return p, nil
}

// GetProduct fetches a product by ID. Returns nil when it does not exist.
func (s *Storage) GetProduct(ctx context.Context, productID string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	p, err := scanProduct(s.db.QueryRow(ctx, query, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetProductWithLookups fetches a product with its attribute lookups, each
// carrying the resolved attribute definition and the canonical string form
// of its value.
func (s *Storage) GetProductWithLookups(ctx context.Context, productID string) (*Product, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil || p == nil {
		return p, err
	}

	query := `
		SELECT l.product_attribute_lookup_id, l.product_id, l.attribute_id,
		       l.value_string, l.value_number, l.value_boolean, l.value_date,
		       l.created_at, l.updated_at,
		       a.attribute_name, a.attribute_description, a.attribute_type,
		       a.short_code, a.is_required, a.created_at, a.updated_at
		FROM product_attribute_lookups l
		JOIN attributes a ON a.attribute_id = l.attribute_id
		WHERE l.product_id = $1
		ORDER BY l.created_at, l.product_attribute_lookup_id`

	rows, err := s.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product lookups: %w", err)
	}
	defer rows.Close()

	p.Lookups = []*ProductAttributeLookup{}
	for rows.Next() {
		var l ProductAttributeLookup
		var a Attribute
		var valueDate *time.Time
		err := rows.Scan(
			&l.LookupID, &l.ProductID, &l.AttributeID,
			&l.ValueString, &l.ValueNumber, &l.ValueBoolean, &valueDate,
			&l.CreatedAt, &l.UpdatedAt,
			&a.AttributeName, &a.AttributeDescription, &a.AttributeType,
			&a.ShortCode, &a.IsRequired, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product lookup: %w", err)
		}
		if valueDate != nil {
			d := NewISOTime(*valueDate)
			l.ValueDate = &d
		}
		a.AttributeID = l.AttributeID
		l.Attribute = &a
		l.AttributeValue = l.Value(a.AttributeType).String()
		p.Lookups = append(p.Lookups, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product lookups: %w", err)
	}
	return p, nil
}

// UpdateProduct applies the non-nil fields and returns the updated product.
// Returns nil when the product does not exist.
func (s *Storage) UpdateProduct(ctx context.Context, productID string, name, description *string) (*Product, error) {
	query := `
		UPDATE products
		SET product_name = COALESCE($2, product_name),
		    product_description = COALESCE($3, product_description),
		    updated_at = now()
		WHERE product_id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRow(ctx, query, productID, name, description))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product; lookups cascade. Reports whether a row
// was deleted.
func (s *Storage) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListProducts returns one page of products matching every predicate,
// newest first, plus the total match count. The count and the page come
// from a single statement so they are consistent even on empty pages.
func (s *Storage) ListProducts(ctx context.Context, predicates []Predicate, limit, offset int) ([]*Product, int, error) {
	var sb strings.Builder
	args := make([]any, 0, 2*len(predicates)+2)

	sb.WriteString(`WITH filtered AS (SELECT `)
	sb.WriteString(productColumns)
	sb.WriteString(` FROM products p`)
	if len(predicates) > 0 {
		sb.WriteString(` WHERE `)
		for i, pred := range predicates {
			if i > 0 {
				sb.WriteString(` AND `)
			}
			args = append(args, pred.AttributeID, pred.Arg)
			fmt.Fprintf(&sb,
				`EXISTS (SELECT 1 FROM product_attribute_lookups l WHERE l.product_id = p.product_id AND l.attribute_id = $%d AND l.%s %s $%d)`,
				len(args)-1, pred.Column, pred.SQLOp, len(args))
		}
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&sb,
		`), page AS (SELECT * FROM filtered ORDER BY created_at DESC, product_id DESC LIMIT $%d OFFSET $%d)
		SELECT (SELECT COUNT(*) FROM filtered),
		       page.product_id, page.product_name, page.product_description, page.created_at, page.updated_at
		FROM (SELECT 1) AS one
		LEFT JOIN page ON true
		ORDER BY page.created_at DESC NULLS LAST, page.product_id DESC NULLS LAST`,
		len(args)-1, len(args))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	total := 0
	for rows.Next() {
		var productID, productName *string
		var productDescription *string
		var createdAt, updatedAt *time.Time
		err := rows.Scan(&total, &productID, &productName, &productDescription, &createdAt, &updatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		// The count arrives even when the page is empty; such rows carry
		// NULL product columns.
		if productID == nil {
			continue
		}
		products = append(products, &Product{
			ProductID:          *productID,
			ProductName:        *productName,
			ProductDescription: productDescription,
			CreatedAt:          NewISOTime(*createdAt),
			UpdatedAt:          NewISOTime(*updatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read products: %w", err)
	}
	return products, total, nil
}

const attributeColumns = "attribute_id, attribute_name, attribute_description, attribute_type, short_code, is_required, created_at, updated_at"

func scanAttribute(row pgx.Row) (*Attribute, error) {
	var a Attribute
	err := row.Scan(&a.AttributeID, &a.AttributeName, &a.AttributeDescription,
		&a.AttributeType, &a.ShortCode, &a.IsRequired, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAttribute inserts a new attribute definition.
func (s *Storage) CreateAttribute(ctx context.Context, name string, description *string, attrType AttributeType, shortCode string, isRequired bool) (*Attribute, error) {
	query := `
		INSERT INTO attributes (attribute_id, attribute_name, attribute_description, attribute_type, short_code, is_required)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + attributeColumns

	a, err := scanAttribute(s.db.QueryRow(ctx, query,
		uuid.NewString(), name, description, attrType, shortCode, isRequired))
	if err != nil {
		return nil, fmt.Errorf("failed to create attribute: %w", err)
	}

	log.Info().
		Str("attribute_id", a.AttributeID).
		Str("short_code", a.ShortCode).
		Str("attribute_type", string(a.AttributeType)).
		Msg("attribute created")
	return a, nil
}

// GetAttribute fetches an attribute by ID. Returns nil when it does not exist.
func (s *Storage) GetAttribute(ctx context.Context, attributeID string) (*Attribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM attributes WHERE attribute_id = $1`

	a, err := scanAttribute(s.db.QueryRow(ctx, query, attributeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute: %w", err)
	}
	return a, nil
}

// DeleteAttribute removes an attribute; lookups cascade. Reports whether a
// row was deleted.
func (s *Storage) DeleteAttribute(ctx context.Context, attributeID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM attributes WHERE attribute_id = $1`, attributeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete attribute: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListAttributes returns one page of attributes, optionally narrowed by a
// case-insensitive substring match on the name, plus the total match count.
func (s *Storage) ListAttributes(ctx context.Context, search string, limit, offset int) ([]*Attribute, int, error) {
	var sb strings.Builder
	args := make([]any, 0, 3)

	sb.WriteString(`WITH filtered AS (SELECT `)
	sb.WriteString(attributeColumns)
	sb.WriteString(` FROM attributes`)
	if search != "" {
		args = append(args, "%"+search+"%")
		fmt.Fprintf(&sb, ` WHERE attribute_name ILIKE $%d`, len(args))
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&sb,
		`), page AS (SELECT * FROM filtered ORDER BY created_at DESC, attribute_id DESC LIMIT $%d OFFSET $%d)
		SELECT (SELECT COUNT(*) FROM filtered),
		       page.attribute_id, page.attribute_name, page.attribute_description,
		       page.attribute_type, page.short_code, page.is_required, page.created_at, page.updated_at
		FROM (SELECT 1) AS one
		LEFT JOIN page ON true
		ORDER BY page.created_at DESC NULLS LAST, page.attribute_id DESC NULLS LAST`,
		len(args)-1, len(args))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attributes: %w", err)
	}
	defer rows.Close()

	attributes := []*Attribute{}
	total := 0
	for rows.Next() {
		var id, name, shortCode *string
		var description *string
		var attrType *AttributeType
		var isRequired *bool
		var createdAt, updatedAt *time.Time
		err := rows.Scan(&total, &id, &name, &description, &attrType, &shortCode, &isRequired, &createdAt, &updatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attribute: %w", err)
		}
		if id == nil {
			continue
		}
		attributes = append(attributes, &Attribute{
			AttributeID:          *id,
			AttributeName:        *name,
			AttributeDescription: description,
			AttributeType:        *attrType,
			ShortCode:            *shortCode,
			IsRequired:           *isRequired,
			CreatedAt:            NewISOTime(*createdAt),
			UpdatedAt:            NewISOTime(*updatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attributes: %w", err)
	}
	return attributes, total, nil
}

// ResolveShortCodes fetches attribute definitions for the given short codes
// in one batch, keyed by short code. Unknown codes are simply absent.
func (s *Storage) ResolveShortCodes(ctx context.Context, shortCodes []string) (map[string]*Attribute, error) {
	resolved := make(map[string]*Attribute, len(shortCodes))
	if len(shortCodes) == 0 {
		return resolved, nil
	}

	query := `SELECT ` + attributeColumns + ` FROM attributes WHERE short_code = ANY($1)`
	rows, err := s.db.Query(ctx, query, shortCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve short codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a Attribute
		err := rows.Scan(&a.AttributeID, &a.AttributeName, &a.AttributeDescription,
			&a.AttributeType, &a.ShortCode, &a.IsRequired, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		resolved[a.ShortCode] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attributes: %w", err)
	}
	return resolved, nil
}

const lookupColumns = "product_attribute_lookup_id, product_id, attribute_id, value_string, value_number, value_boolean, value_date, created_at, updated_at"

func scanLookup(row pgx.Row) (*ProductAttributeLookup, error) {
	var l ProductAttributeLookup
	var valueDate *time.Time
	err := row.Scan(&l.LookupID, &l.ProductID, &l.AttributeID,
		&l.ValueString, &l.ValueNumber, &l.ValueBoolean, &valueDate,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if valueDate != nil {
		d := NewISOTime(*valueDate)
		l.ValueDate = &d
	}
	return &l, nil
}

// CreateLookup inserts a lookup row binding value to (product, attribute).
// All four value columns are written; only the one matching the value's
// kind is non-NULL.
func (s *Storage) CreateLookup(ctx context.Context, productID, attributeID string, value Value) (*ProductAttributeLookup, error) {
	str, num, boolean, date := value.columnArgs()
	query := `
		INSERT INTO product_attribute_lookups
			(product_attribute_lookup_id, product_id, attribute_id, value_string, value_number, value_boolean, value_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + lookupColumns

	l, err := scanLookup(s.db.QueryRow(ctx, query,
		uuid.NewString(), productID, attributeID, str, num, boolean, date))
	if err != nil {
		return nil, fmt.Errorf("failed to create product attribute lookup: %w", err)
	}
	return l, nil
}

// GetLookup fetches a lookup scoped to its product and attribute. Returns
// nil when no such row exists.
func (s *Storage) GetLookup(ctx context.Context, lookupID, productID, attributeID string) (*ProductAttributeLookup, error) {
	query := `
		SELECT ` + lookupColumns + `
		FROM product_attribute_lookups
		WHERE product_attribute_lookup_id = $1 AND product_id = $2 AND attribute_id = $3`

	l, err := scanLookup(s.db.QueryRow(ctx, query, lookupID, productID, attributeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product attribute lookup: %w", err)
	}
	return l, nil
}

// UpdateLookup replaces the stored value. Writing all four columns nulls
// whichever ones the new value does not use, so a row never carries stale
// values from a previous attribute type.
func (s *Storage) UpdateLookup(ctx context.Context, lookupID string, value Value) (*ProductAttributeLookup, error) {
	str, num, boolean, date := value.columnArgs()
	query := `
		UPDATE product_attribute_lookups
		SET value_string = $2, value_number = $3, value_boolean = $4, value_date = $5, updated_at = now()
		WHERE product_attribute_lookup_id = $1
		RETURNING ` + lookupColumns

	l, err := scanLookup(s.db.QueryRow(ctx, query, lookupID, str, num, boolean, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product attribute lookup: %w", err)
	}
	return l, nil
}

// DeleteLookup removes a lookup row. Reports whether a row was deleted.
func (s *Storage) DeleteLookup(ctx context.Context, lookupID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM product_attribute_lookups WHERE product_attribute_lookup_id = $1`, lookupID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product attribute lookup: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
