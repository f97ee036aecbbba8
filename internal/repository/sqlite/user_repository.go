package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/models"
	"github.com/aleroux/chesslab/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation backed by SQLite.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, email, password_hash, created_at, games_imported, email_verified"

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *userRepository) getBy(ctx context.Context, pred squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	query, args, err := sqlBuilder.
		Select("id", "username", "email", "password_hash", "created_at", "games_imported", "email_verified").
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.GamesImported, &u.EmailVerified)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %v", pred)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}

	if err := r.loadAccounts(ctx, &u); err != nil {
		log.Error("failed to load linked accounts for user %s: %v", u.ID, err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) loadAccounts(ctx context.Context, u *models.User) error {
	query, args, err := sqlBuilder.
		Select("platform", "username", "linked_at", "verified", "raw_profile").
		From("linked_accounts").
		Where(squirrel.Eq{"user_id": u.ID}).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	u.Accounts = map[models.Platform]models.LinkedAccount{}
	for rows.Next() {
		var acc models.LinkedAccount
		var platform string
		var raw []byte
		if err := rows.Scan(&platform, &acc.Username, &acc.LinkedAt, &acc.Verified, &raw); err != nil {
			return err
		}
		acc.Platform = models.Platform(platform)
		if len(raw) > 0 {
			acc.RawProfile = json.RawMessage(raw)
		}
		u.Accounts[acc.Platform] = acc
	}
	return rows.Err()
}

func (r *userRepository) Insert(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: id=%s username=%s", user.ID, user.Username)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		query, args, err := sqlBuilder.
			Insert("users").
			Columns("id", "username", "email", "password_hash", "created_at", "games_imported", "email_verified").
			Values(user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.GamesImported, user.EmailVerified).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := t.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to insert user: %v", err)
			return err
		}
		return insertAccounts(ctx, t, user)
	})
}

// Update rewrites the user row and its linked accounts as one transaction.
// The linked-accounts map is read-modify-write at the service layer, so the
// full replace keeps the stored set identical to the in-memory set.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user: id=%s", user.ID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		query, args, err := sqlBuilder.
			Update("users").
			Set("username", user.Username).
			Set("email", user.Email).
			Set("password_hash", user.PasswordHash).
			Set("games_imported", user.GamesImported).
			Set("email_verified", user.EmailVerified).
			Where(squirrel.Eq{"id": user.ID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := t.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to update user: %v", err)
			return err
		}
		if _, err := t.ExecContext(ctx, `DELETE FROM linked_accounts WHERE user_id = ?`, user.ID); err != nil {
			log.Error("failed to clear linked accounts: %v", err)
			return err
		}
		return insertAccounts(ctx, t, user)
	})
}

func insertAccounts(ctx context.Context, t *sql.Tx, user *models.User) error {
	for _, acc := range user.Accounts {
		query, args, err := sqlBuilder.
			Insert("linked_accounts").
			Columns("user_id", "platform", "username", "linked_at", "verified", "raw_profile").
			Values(user.ID, string(acc.Platform), acc.Username, acc.LinkedAt, acc.Verified, []byte(acc.RawProfile)).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := t.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%s", id)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		// linked_accounts cascade via FK, but delete explicitly in case
		// foreign keys are disabled on the connection.
		if _, err := t.ExecContext(ctx, `DELETE FROM linked_accounts WHERE user_id = ?`, id); err != nil {
			return err
		}
		_, err := t.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		return err
	})
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
