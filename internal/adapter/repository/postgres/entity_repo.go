package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hewad/sarrafbook/internal/domain"
)

// EntityRepository implements usecase.EntityRepository over the partitioned
// entities table. The partition is a category column; probing one partition
// is a lookup filtered by that column.
type EntityRepository struct {
	pool *pgxpool.Pool
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(pool *pgxpool.Pool) *EntityRepository {
	return &EntityRepository{pool: pool}
}

// Create creates a new entity record.
func (r *EntityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO entities (id, name, category, base_balance, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entity.ID,
		entity.Name,
		string(entity.Category),
		decimalToNumeric(entity.BaseBalance),
		entity.Phone,
		entity.Address,
		timeToPgTimestamptz(entity.CreatedAt),
		timeToPgTimestamptz(entity.UpdatedAt),
	)

	return err
}

// GetByID retrieves an entity by ID.
func (r *EntityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, category, base_balance, phone, address, created_at, updated_at
		FROM entities
		WHERE id = $1`, id)

	entity, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}

		return nil, err
	}

	return entity, nil
}

// ExistsInCategory probes a single partition for an identifier.
func (r *EntityRepository) ExistsInCategory(ctx context.Context, id string, category domain.Category) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM entities WHERE id = $1 AND category = $2)`,
		id, string(category),
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// List lists entities, optionally filtered by partition.
func (r *EntityRepository) List(ctx context.Context, category *domain.Category, limit, offset int) ([]*domain.Entity, error) {
	query := `
		SELECT id, name, category, base_balance, phone, address, created_at, updated_at
		FROM entities`
	args := []any{}

	if category != nil {
		query += ` WHERE category = $1 ORDER BY name LIMIT $2 OFFSET $3`
		args = append(args, string(*category), int32(limit), int32(offset))
	} else {
		query += ` ORDER BY name LIMIT $1 OFFSET $2`
		args = append(args, int32(limit), int32(offset))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*domain.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

func scanEntity(row pgx.Row) (*domain.Entity, error) {
	var (
		entity   domain.Entity
		category string
		balance  pgtype.Numeric
		created  pgtype.Timestamptz
		updated  pgtype.Timestamptz
	)

	err := row.Scan(&entity.ID, &entity.Name, &category, &balance, &entity.Phone, &entity.Address, &created, &updated)
	if err != nil {
		return nil, err
	}

	entity.Category = domain.Category(category)
	entity.BaseBalance = numericToDecimal(balance)
	entity.CreatedAt = created.Time
	entity.UpdatedAt = updated.Time

	return &entity, nil
}
