package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"appraise/internal/domain/auth"
	"appraise/internal/platform/config"
)

// Seed ensures one login user and profile per workflow role so a fresh
// deployment can exercise the whole approval chain.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	password := cfg.SeedPassword
	if password == "" {
		password = "ChangeMe123!"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	for _, role := range auth.AllRoles {
		email := role + "@appraise.local"
		name := auth.RoleNames[role]
		if err := ensureUser(ctx, pool, email, hash, role, name); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, passwordHash, role, fullName string) error {
	var userID string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", strings.ToLower(email)).Scan(&userID)
	if err != nil {
		err = pool.QueryRow(ctx, `
      INSERT INTO users (email, password_hash, status)
      VALUES ($1, $2, 'active')
      RETURNING id
    `, strings.ToLower(email), passwordHash).Scan(&userID)
		if err != nil {
			return err
		}
	}

	var profileID string
	err = pool.QueryRow(ctx, "SELECT id FROM profiles WHERE user_id = $1", userID).Scan(&profileID)
	if err == nil {
		return nil
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO profiles (user_id, full_name, role)
    VALUES ($1, $2, $3)
  `, userID, fullName, role)
	return err
}
