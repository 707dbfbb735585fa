// cmd/seedadmin/main.go — creates or updates the initial admin account.
// Usage: go run ./cmd/seedadmin [username] [password]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"liquorpos/internal/infra"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "liquorpos.db"
	}
	username := "admin"
	password := "admin"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(dbPath)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (id, username, name, password_hash, role, active)
		VALUES (?, ?, ?, ?, 'admin', 1)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash,
		    role = 'admin',
		    active = 1
	`, uuid.NewString(), username, "Administrator", string(hash))

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("admin user %q ready\n", username)
}
