package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tracking_number, name, description, category, sub_category, specs,
	manufacturer_id, current_owner_id, current_location, status, quantity, price,
	timeline, transactions, batch_number, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). Timeline, transactions y specs viven como JSONB en
// la fila del producto, como el documento del sistema origen.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo. Version debe venir en 1.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TrackingNumber, p.Name, p.Description, p.Category, p.SubCategory, p.Specs,
		p.ManufacturerID, p.CurrentOwnerID, p.CurrentLocation, string(p.Status), p.Quantity, p.Price,
		p.Timeline, p.Transactions, p.BatchNumber, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var status string
	err := row.Scan(
		&p.ID, &p.TrackingNumber, &p.Name, &p.Description, &p.Category, &p.SubCategory, &p.Specs,
		&p.ManufacturerID, &p.CurrentOwnerID, &p.CurrentLocation, &status, &p.Quantity, &p.Price,
		&p.Timeline, &p.Transactions, &p.BatchNumber, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Status = entity.ProductStatus(status)
	return &p, nil
}

// GetByID obtiene un producto por id.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByTrackingNumber obtiene un producto por su número de rastreo.
func (r *ProductRepo) GetByTrackingNumber(trackingNumber string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tracking_number = $1`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, trackingNumber))
	if err != nil {
		return nil, fmt.Errorf("get product by tracking: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción: serializa las transiciones
// concurrentes sobre el mismo producto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// UpdateWithVersion escribe el producto completo verificando e incrementando
// Version en la misma sentencia. Cero filas afectadas con el producto
// existente significa que otro writer ganó la carrera: ErrVersionConflict.
func (r *ProductRepo) UpdateWithVersion(p *entity.Product) error {
	query := `
		UPDATE products SET
			tracking_number = $3, name = $4, description = $5, category = $6, sub_category = $7,
			specs = $8, manufacturer_id = $9, current_owner_id = $10, current_location = $11,
			status = $12, quantity = $13, price = $14, timeline = $15, transactions = $16,
			batch_number = $17, version = version + 1, updated_at = $18
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Version,
		p.TrackingNumber, p.Name, p.Description, p.Category, p.SubCategory,
		p.Specs, p.ManufacturerID, p.CurrentOwnerID, p.CurrentLocation,
		string(p.Status), p.Quantity, p.Price, p.Timeline, p.Transactions,
		p.BatchNumber, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check product exists: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	p.Version++
	return nil
}

// List lista productos aplicando filtros opcionales de estado y categoría,
// más recientes primero, con el total para paginación.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int, error) {
	var conditions []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return list, total, nil
}

// Delete elimina un producto (operación administrativa).
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
