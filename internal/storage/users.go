package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const userColumns = `id, name, email, role, address, phone_number, created_at,
			      last_login, is_active, welcome_email_sent, cookie_policy_accepted`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var phone sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Address, &phone, &u.CreatedAt,
		&lastLogin, &u.IsActive, &u.WelcomeEmailSent, &u.CookiePolicyAccepted); err != nil {
		return nil, err
	}
	u.PhoneNumber = stringPtr(phone)
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// CreateUser сохраняет пользователя. Если пользователь с таким ID уже есть,
// обновляется только email: провайдер мог сменить адрес субъекта.
// Возвращает false, если запись уже существовала.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (bool, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `INSERT INTO users (id, name, email, role, address, last_login)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
			  RETURNING (xmax = 0)`
	var inserted bool
	err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Role, user.Address, user.LastLogin).Scan(&inserted)
	if err != nil {
		return false, wrap(op, err, "user not found")
	}
	return inserted, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrap(op, err, "user not found")
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap(op, err, "user not found")
	}
	return u, nil
}

// RecordLogin обновляет время входа и роль пользователя.
func (s *Storage) RecordLogin(ctx context.Context, userID string, role models.Role, at time.Time) error {
	const op = "storage.RecordLogin"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET last_login = $2, role = $3 WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, userID, at, role)
	if err != nil {
		return wrap(op, err, "user not found")
	}
	return expectOne(op, res, "user not found")
}

// MarkWelcomeEmailSent помечает, что приветственное письмо поставлено в очередь.
// Возвращает false, если отметка уже стояла.
func (s *Storage) MarkWelcomeEmailSent(ctx context.Context, userID string) (bool, error) {
	const op = "storage.MarkWelcomeEmailSent"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `UPDATE users SET welcome_email_sent = true
			  WHERE id = $1 AND welcome_email_sent = false`
	res, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return false, wrap(op, err, "user not found")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(op, err, "user not found")
	}
	return n == 1, nil
}

// UpdateProfile изменяет поля профиля, которые пользователь правит сам.
func (s *Storage) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET
			      address = COALESCE($2, address),
			      phone_number = COALESCE($3, phone_number),
			      cookie_policy_accepted = COALESCE($4, cookie_policy_accepted)
			  WHERE id = $1
			  RETURNING ` + userColumns
	var cookie sql.NullBool
	if upd.CookiePolicyAccepted != nil {
		cookie = sql.NullBool{Bool: *upd.CookiePolicyAccepted, Valid: true}
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID,
		nullString(upd.Address), nullString(upd.PhoneNumber), cookie))
	if err != nil {
		return nil, wrap(op, err, "user not found")
	}
	return u, nil
}

// UpdateUser применяет административные изменения пользователя.
func (s *Storage) UpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET
			      name = COALESCE($2, name),
			      address = COALESCE($3, address),
			      phone_number = COALESCE($4, phone_number),
			      role = COALESCE($5, role),
			      is_active = COALESCE($6, is_active)
			  WHERE id = $1
			  RETURNING ` + userColumns
	var role sql.NullString
	if upd.Role != nil {
		role = sql.NullString{String: string(*upd.Role), Valid: true}
	}
	var active sql.NullBool
	if upd.IsActive != nil {
		active = sql.NullBool{Bool: *upd.IsActive, Valid: true}
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID,
		nullString(upd.Name), nullString(upd.Address), nullString(upd.PhoneNumber), role, active))
	if err != nil {
		return nil, wrap(op, err, "user not found")
	}
	return u, nil
}

// ListUsers возвращает пользователей постранично, новые первыми.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users
			  ORDER BY created_at DESC, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap(op, err, "")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return users, nil
}

func expectOne(op string, res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err, notFound)
	}
	if n == 0 {
		return wrap(op, sql.ErrNoRows, notFound)
	}
	return nil
}
