package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/taskhub/internal/domain"
)

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateOrUpdate создает нового пользователя или обновляет существующего
func (r *UserRepository) CreateOrUpdate(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, full_name, role, may_to_open)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    full_name = EXCLUDED.full_name,
		    role = EXCLUDED.role,
		    may_to_open = EXCLUDED.may_to_open,
		    updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		user.TelegramID,
		domain.CanonicalUsername(user.Username),
		user.FirstName,
		user.LastName,
		user.FullName,
		user.Role,
		user.MayToOpen,
	)
	return err
}

// GetByTelegramID получает пользователя по telegram id
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `
		SELECT telegram_id, username, first_name, last_name, full_name, role, may_to_open
		FROM users
		WHERE telegram_id = $1
	`

	return r.scanUser(r.db.QueryRow(ctx, query, telegramID))
}

// GetByUsername получает пользователя по каноническому ключу username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT telegram_id, username, first_name, last_name, full_name, role, may_to_open
		FROM users
		WHERE username = $1
	`

	return r.scanUser(r.db.QueryRow(ctx, query, domain.CanonicalUsername(username)))
}

// List возвращает всех пользователей справочника
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT telegram_id, username, first_name, last_name, full_name, role, may_to_open
		FROM users
		ORDER BY full_name, username
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Search возвращает пользователей по подстроке username или полного имени
func (r *UserRepository) Search(ctx context.Context, search string) ([]domain.User, error) {
	query := `
		SELECT telegram_id, username, first_name, last_name, full_name, role, may_to_open
		FROM users
		WHERE username ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name, username
	`

	rows, err := r.db.Query(ctx, query, domain.CanonicalUsername(search))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.FullName,
		&user.Role,
		&user.MayToOpen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.TelegramID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.FullName,
			&user.Role,
			&user.MayToOpen,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
