package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type credentialRepo struct {
	db *sql.DB
}

var _ CredentialRepo = (*credentialRepo)(nil)

func (r *credentialRepo) SaveToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (id, token, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *credentialRepo) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT token FROM credentials WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (r *credentialRepo) ClearToken(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
