package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ConfirmPayment сохраняет подтвержденный платеж и отмечает заказ оплаченным.
// Ожидающий заказ переходит в confirmed. Повтор с той же ссылкой провайдера
// ничего не меняет и возвращает false.
func (s *Storage) ConfirmPayment(ctx context.Context, payment models.PaymentTransaction) (bool, error) {
	const op = "storage.ConfirmPayment"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	applied := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `INSERT INTO payment_transactions
				      (order_id, amount, currency, transaction_date, status, payment_method, provider_reference)
				  VALUES ($1, $2, $3, $4, $5, $6, $7)
				  ON CONFLICT (provider_reference) DO NOTHING
				  RETURNING id`,
			payment.OrderID, payment.Amount, payment.Currency, payment.TransactionDate,
			payment.Status, payment.PaymentMethod, payment.ProviderReference).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `UPDATE orders SET
				      status = CASE WHEN status = 'pending' THEN 'confirmed' ELSE status END,
				      payment_status = 'paid',
				      transaction_id = $2,
				      updated_at = now()
				  WHERE id = $1`, payment.OrderID, payment.ProviderReference)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, wrap(op, err, "order not found")
	}
	return applied, nil
}

// SetPaymentStatus меняет статус оплаты заказа.
func (s *Storage) SetPaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus) error {
	const op = "storage.SetPaymentStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`, orderID, status)
	if err != nil {
		return wrap(op, err, "order not found")
	}
	return expectOne(op, res, "order not found")
}

// ListPayments возвращает платежи по заказу.
func (s *Storage) ListPayments(ctx context.Context, orderID string) ([]*models.PaymentTransaction, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, order_id, amount, currency, transaction_date,
			      status, payment_method, provider_reference
			  FROM payment_transactions
			  WHERE order_id = $1
			  ORDER BY transaction_date`, orderID)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	payments := make([]*models.PaymentTransaction, 0)
	for rows.Next() {
		p := &models.PaymentTransaction{}
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.TransactionDate,
			&p.Status, &p.PaymentMethod, &p.ProviderReference); err != nil {
			return nil, wrap(op, err, "")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return payments, nil
}

// WebhookEventProcessed сообщает, обрабатывалось ли событие раньше.
func (s *Storage) WebhookEventProcessed(ctx context.Context, eventID string) (bool, error) {
	const op = "storage.WebhookEventProcessed"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return false, wrap(op, err, "")
	}
	return exists, nil
}

// RecordWebhookEvent отмечает событие обработанным. Возвращает false, если
// отметка уже была.
func (s *Storage) RecordWebhookEvent(ctx context.Context, event models.WebhookEvent) (bool, error) {
	const op = "storage.RecordWebhookEvent"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	res, err := s.DB.ExecContext(ctx, `INSERT INTO webhook_events (event_id, event_type, processed_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (event_id) DO NOTHING`, event.EventID, event.EventType, event.ProcessedAt)
	if err != nil {
		return false, wrap(op, err, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(op, err, "")
	}
	return n == 1, nil
}
