package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movieflex/movieflex/internal/models"
)

// SaveRefreshToken сохраняет выданный refresh-токен и возвращает ID записи.
func (s *Storage) SaveRefreshToken(ctx context.Context, token models.RefreshToken) (int, error) {
	const op = "storage.SaveRefreshToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO refresh_tokens (token, user_id, expires_at)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		token.Token, token.UserID, token.ExpiresAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetRefreshTokenByUserID возвращает живой токен пользователя, если он есть.
// У пользователя не более одного токена (уникальный индекс по user_id).
func (s *Storage) GetRefreshTokenByUserID(ctx context.Context, userID int) (*models.RefreshToken, error) {
	const op = "storage.GetRefreshTokenByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, user_id, expires_at
			  FROM refresh_tokens
			  WHERE user_id = $1`
	rt := &models.RefreshToken{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	if err := row.Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rt, nil
}

// GetRefreshToken возвращает запись по строке токена.
func (s *Storage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const op = "storage.GetRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, user_id, expires_at
			  FROM refresh_tokens
			  WHERE token = $1`
	rt := &models.RefreshToken{}
	row := s.DB.QueryRowContext(ctx, query, token)

	if err := row.Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rt, nil
}

// DeleteRefreshToken удаляет запись токена по ID.
func (s *Storage) DeleteRefreshToken(ctx context.Context, id int) error {
	const op = "storage.DeleteRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}
	return nil
}
