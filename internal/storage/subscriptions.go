package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const subscriptionColumns = `id, user_id, plan_name, start_date, end_date, is_active`

func scanSubscription(row scanner) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var end sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanName, &sub.StartDate, &end, &sub.IsActive); err != nil {
		return nil, err
	}
	if end.Valid {
		sub.EndDate = &end.Time
	}
	return sub, nil
}

// ListSubscriptions возвращает подписки постранично. Пустой userID означает всех пользователей.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
			  WHERE ($1 = '' OR user_id = $1)
			  ORDER BY start_date DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	subs := make([]*models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, wrap(op, err, "")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return subs, nil
}

// DeactivateSubscription снимает флаг активности подписки.
func (s *Storage) DeactivateSubscription(ctx context.Context, id int64) error {
	const op = "storage.DeactivateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err, "subscription not found")
	}
	return expectOne(op, res, "subscription not found")
}

// DeactivateExpired отключает активные подписки, срок которых истек к now.
func (s *Storage) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.DeactivateExpired"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions SET is_active = false
			  WHERE is_active AND end_date IS NOT NULL AND end_date < $1`, now)
	if err != nil {
		return 0, wrap(op, err, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(op, err, "")
	}
	return n, nil
}
