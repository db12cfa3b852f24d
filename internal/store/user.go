package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Village, &u.Role)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Rows written by older deployments may have NULL village or role.
const userCols = `id, username, password_hash, COALESCE(village_name, ''), COALESCE(role, 'user')`

func (s *UserStore) Create(username, passwordHash, village, role string) (*model.User, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO users (username, password_hash, village_name, role) VALUES (?, ?, ?, ?) RETURNING id`,
		username, passwordHash, village, role,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", mapWriteErr(err))
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdatePassword replaces the hash and ends every session of the user, in one
// transaction. It returns ErrNotFound for an unknown username.
func (s *UserStore) UpdatePassword(username, passwordHash string) error {
	return s.db.WithTx(func(tx *database.Tx) error {
		var id int64
		err := tx.QueryRow(`SELECT id FROM users WHERE username = ?`, username).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if _, err := tx.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		return nil
	})
}

// RehashPlaintext converts every password_hash that isHashed rejects into a
// hash produced by hash. All rows change in one transaction. It returns the
// number of rows converted.
func (s *UserStore) RehashPlaintext(isHashed func(string) bool, hash func(string) (string, error)) (int, error) {
	converted := 0
	err := s.db.WithTx(func(tx *database.Tx) error {
		rows, err := tx.Query(`SELECT id, password_hash FROM users ORDER BY id`)
		if err != nil {
			return fmt.Errorf("select passwords: %w", err)
		}
		type pending struct {
			id    int64
			plain string
		}
		var todo []pending
		for rows.Next() {
			var p pending
			if err := rows.Scan(&p.id, &p.plain); err != nil {
				rows.Close()
				return fmt.Errorf("scan password: %w", err)
			}
			if !isHashed(p.plain) {
				todo = append(todo, p)
			}
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, p := range todo {
			h, err := hash(p.plain)
			if err != nil {
				return fmt.Errorf("hash password for user %d: %w", p.id, err)
			}
			if _, err := tx.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, h, p.id); err != nil {
				return fmt.Errorf("update password for user %d: %w", p.id, err)
			}
		}
		converted = len(todo)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return converted, nil
}
