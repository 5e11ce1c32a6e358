package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rajivgeraev/artswap-api/internal/models"
)

// UserRepository реализует Users поверх PostgreSQL
type UserRepository struct {
	pool DB
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create сохраняет нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUsername получает пользователя по имени
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

// UpsertTelegram создает пользователя Telegram или обновляет существующего
func (r *UserRepository) UpsertTelegram(ctx context.Context, telegramID int64, username, firstName, photoURL string) (*models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM users WHERE telegram_id = $1
	`, telegramID).Scan(&userID)

	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("ошибка при поиске Telegram пользователя: %w", err)
	}

	if err == pgx.ErrNoRows {
		// Имя пользователя Telegram может быть пустым, подставляем стабильное
		if username == "" {
			username = fmt.Sprintf("tg_%d", telegramID)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO users (username, email, telegram_id, avatar_url)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, username, fmt.Sprintf("%d@telegram.local", telegramID), telegramID, photoURL).Scan(&userID)

		if err != nil {
			return nil, fmt.Errorf("ошибка при создании Telegram пользователя: %w", mapUniqueViolation(err))
		}
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE users SET avatar_url = $1 WHERE id = $2
		`, photoURL, userID)

		if err != nil {
			return nil, fmt.Errorf("ошибка при обновлении Telegram пользователя: %w", err)
		}
	}

	user, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return user, nil
}

const selectUser = `
	SELECT id, username, email, password_hash, telegram_id, avatar_url, created_at
	FROM users
`

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUser+where, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// scanUser читает строку users с учетом nullable полей
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var passwordHash, avatarURL pgtype.Text
	var telegramID pgtype.Int8

	err := row.Scan(
		&user.ID, &user.Username, &user.Email,
		&passwordHash, &telegramID, &avatarURL, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if avatarURL.Valid {
		user.AvatarURL = avatarURL.String
	}
	if telegramID.Valid {
		id := telegramID.Int64
		user.TelegramID = &id
	}

	return &user, nil
}

// mapUniqueViolation преобразует нарушение уникальности в ошибку уровня домена
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return ErrUsernameTaken
		case "users_email_key":
			return ErrEmailTaken
		}
	}
	return err
}
