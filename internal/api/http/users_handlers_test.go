package http

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openUsersDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create users: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB, id, username, role string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,0)`,
		id, username, "hash-"+id, role)
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
}

// A row carrying only a username must update the matching user, not silently
// miss it and still count as updated.
func TestBulkUpsertMatchesExistingUserByUsername(t *testing.T) {
	db := openUsersDB(t)
	seedUser(t, db, "u1", "alice", "student")

	ins, upd, err := upsertUsers(context.Background(), db, []userRow{
		{Username: "alice", Role: "teacher"},
	})
	if err != nil {
		t.Fatalf("upsertUsers: %v", err)
	}
	if ins != 0 || upd != 1 {
		t.Fatalf("inserted=%d updated=%d, want 0/1", ins, upd)
	}

	var role, hash string
	if err := db.QueryRow(`SELECT role, password_hash FROM users WHERE id='u1'`).Scan(&role, &hash); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if role != "teacher" {
		t.Fatalf("role = %q, want teacher", role)
	}
	if hash != "hash-u1" {
		t.Fatalf("hash changed without a new password: %q", hash)
	}

	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	if n != 1 {
		t.Fatalf("user count = %d, want 1 (no duplicate insert)", n)
	}
}

func TestBulkUpsertNewUserRequiresPassword(t *testing.T) {
	db := openUsersDB(t)

	_, _, err := upsertUsers(context.Background(), db, []userRow{
		{Username: "bob", Role: "student"},
	})
	if err == nil {
		t.Fatalf("expected error for new user without password")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	if n != 0 {
		t.Fatalf("user count = %d, want 0 (rolled back)", n)
	}
}

func TestBulkUpsertInsertsWithPassword(t *testing.T) {
	db := openUsersDB(t)

	ins, upd, err := upsertUsers(context.Background(), db, []userRow{
		{Username: "carol", Role: "teacher", Password: "pw"},
	})
	if err != nil {
		t.Fatalf("upsertUsers: %v", err)
	}
	if ins != 1 || upd != 0 {
		t.Fatalf("inserted=%d updated=%d, want 1/0", ins, upd)
	}
	var id, role string
	if err := db.QueryRow(`SELECT id, role FROM users WHERE username='carol'`).Scan(&id, &role); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if id == "" || role != "teacher" {
		t.Fatalf("row = (%q, %q)", id, role)
	}
}
