package storage

import (
	"context"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const productColumns = `id, name, description, price, stock, category, created_at, updated_at`

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct сохраняет товар и возвращает его с присвоенным ID.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, description, price, stock, category)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + productColumns
	created, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.Category))
	if err != nil {
		return nil, wrap(op, err, "product not found")
	}
	return created, nil
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(op, err, "product not found")
	}
	return p, nil
}

// ListProducts возвращает все товары каталога.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrap(op, err, "")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return products, nil
}

// UpdateProduct перезаписывает поля товара.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE products
			  SET name = $2, description = $3, price = $4, stock = $5, category = $6,
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + productColumns
	updated, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category))
	if err != nil {
		return nil, wrap(op, err, "product not found")
	}
	return updated, nil
}

// RemoveProduct удаляет товар. Товар, на который ссылаются заказы, удалить нельзя.
func (s *Storage) RemoveProduct(ctx context.Context, id int64) error {
	const op = "storage.RemoveProduct"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err, "product not found")
	}
	return expectOne(op, res, "product not found")
}
