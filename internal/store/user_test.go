package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gramarogya/nondvahi/internal/database"
)

func TestUserCreate(t *testing.T) {
	eachDB(t, func(t *testing.T, db *database.DB) {
		us := NewUserStore(db)

		u, err := us.Create("asha", "$2a$10$hash", "शेळगाव", "user")
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if u.ID == 0 {
			t.Error("expected non-zero ID")
		}
		if u.Username != "asha" {
			t.Errorf("username = %q, want %q", u.Username, "asha")
		}
		if u.Village != "शेळगाव" {
			t.Errorf("village = %q, want %q", u.Village, "शेळगाव")
		}
		if u.PasswordHash != "$2a$10$hash" {
			t.Errorf("password_hash = %q", u.PasswordHash)
		}
	})
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	eachDB(t, func(t *testing.T, db *database.DB) {
		us := NewUserStore(db)

		if _, err := us.Create("asha", "h", "v", "user"); err != nil {
			t.Fatalf("create user: %v", err)
		}
		_, err := us.Create("asha", "h2", "v2", "admin")
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	us := NewUserStore(openTestDB(t))

	u, err := us.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown username")
	}
}

func TestUserListOrderedByID(t *testing.T) {
	us := NewUserStore(openTestDB(t))

	for _, name := range []string{"zoya", "asha", "meera"} {
		if _, err := us.Create(name, "h", "v", "user"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	users, err := us.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len = %d, want 3", len(users))
	}
	for i, want := range []string{"zoya", "asha", "meera"} {
		if users[i].Username != want {
			t.Errorf("users[%d] = %q, want %q", i, users[i].Username, want)
		}
	}
}

func TestUserUpdatePasswordEndsSessions(t *testing.T) {
	eachDB(t, func(t *testing.T, db *database.DB) {
		us := NewUserStore(db)
		ss := NewSessionStore(db)

		u, _ := us.Create("asha", "old", "v", "user")
		sess, err := ss.Create(u.ID, time.Hour)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}

		if err := us.UpdatePassword("asha", "new"); err != nil {
			t.Fatalf("update password: %v", err)
		}

		got, _ := us.GetByID(u.ID)
		if got.PasswordHash != "new" {
			t.Errorf("password_hash = %q, want new", got.PasswordHash)
		}
		if s, _ := ss.GetByToken(sess.Token); s != nil {
			t.Error("expected session to be removed after password reset")
		}
	})
}

func TestUserUpdatePasswordUnknown(t *testing.T) {
	us := NewUserStore(openTestDB(t))

	err := us.UpdatePassword("nobody", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserRehashPlaintext(t *testing.T) {
	us := NewUserStore(openTestDB(t))

	us.Create("plain", "secret", "v", "user")
	us.Create("hashed", "$2b$10$already", "v", "user")

	isHashed := func(s string) bool { return strings.HasPrefix(s, "$2") }
	hash := func(s string) (string, error) { return "$2b$10$" + s, nil }

	n, err := us.RehashPlaintext(isHashed, hash)
	if err != nil {
		t.Fatalf("rehash: %v", err)
	}
	if n != 1 {
		t.Errorf("converted = %d, want 1", n)
	}

	plain, _ := us.GetByUsername("plain")
	if plain.PasswordHash != "$2b$10$secret" {
		t.Errorf("plain hash = %q", plain.PasswordHash)
	}
	hashed, _ := us.GetByUsername("hashed")
	if hashed.PasswordHash != "$2b$10$already" {
		t.Errorf("hashed changed to %q", hashed.PasswordHash)
	}

	n, err = us.RehashPlaintext(isHashed, hash)
	if err != nil {
		t.Fatalf("second rehash: %v", err)
	}
	if n != 0 {
		t.Errorf("second run converted = %d, want 0", n)
	}
}

func TestUserRehashPlaintextRollsBack(t *testing.T) {
	us := NewUserStore(openTestDB(t))

	us.Create("a", "one", "v", "user")
	us.Create("b", "two", "v", "user")

	calls := 0
	hash := func(s string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("hash failed")
		}
		return "$2b$" + s, nil
	}
	if _, err := us.RehashPlaintext(func(string) bool { return false }, hash); err == nil {
		t.Fatal("expected error")
	}

	a, _ := us.GetByUsername("a")
	if a.PasswordHash != "one" {
		t.Errorf("a = %q, want unchanged after rollback", a.PasswordHash)
	}
}
