package postgres

import (
	"context"
	"fmt"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type PromotionRepository struct {
	db DBTX
}

func NewPromotionRepository(db DBTX) domain.PromotionRepository {
	return &PromotionRepository{db: db}
}

const promotionColumns = `code, discount_value, valid, created_at, updated_at`

func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var (
		p     domain.Promotion
		value pgtype.Numeric
	)
	if err := row.Scan(&p.Code, &value, &p.Valid, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	d, err := numericToDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("promotion %s: %w", p.Code, err)
	}
	p.DiscountValue = d
	return &p, nil
}

func (r *PromotionRepository) GetPromotion(ctx context.Context, code string) (*domain.Promotion, error) {
	row := querier(ctx, r.db).QueryRow(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE code = $1`, code)
	return scanPromotion(row)
}

func (r *PromotionRepository) CreatePromotion(ctx context.Context, promo *domain.Promotion) error {
	row := querier(ctx, r.db).QueryRow(ctx, `
INSERT INTO promotions (code, discount_value, valid)
VALUES ($1, $2, $3)
RETURNING created_at, updated_at`,
		promo.Code, decimalToNumeric(promo.DiscountValue), promo.Valid)
	return mapError(row.Scan(&promo.CreatedAt, &promo.UpdatedAt))
}

func (r *PromotionRepository) ListPromotions(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	rows, err := querier(ctx, r.db).Query(ctx,
		`SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC, code LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := []domain.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, *p)
	}
	return promos, rows.Err()
}

func (r *PromotionRepository) SetPromotionValidity(ctx context.Context, code string, valid bool) error {
	tag, err := querier(ctx, r.db).Exec(ctx,
		`UPDATE promotions SET valid = $2, updated_at = now() WHERE code = $1`, code, valid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("promotion %s: %w", code, domain.ErrNotFound)
	}
	return nil
}
