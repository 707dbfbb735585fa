// cmd/wipedata/main.go — administrative factory reset.
//
// Deletes transactional data (ledger, transactions, till sessions, time
// clock) and resets product on-hand counts. Products and users survive
// unless explicitly included. Dry-run by default: pass -yes to apply.
//
// Usage: go run ./cmd/wipedata [-yes] [-products] [-users]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"liquorpos/internal/infra"
)

func main() {
	apply := flag.Bool("yes", false, "actually delete; default is a dry run")
	products := flag.Bool("products", false, "also delete the product catalog and price history")
	users := flag.Bool("users", false, "also delete user accounts")
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "liquorpos.db"
	}
	db, err := infra.NewDatabase(dbPath)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	tables := []string{
		"ledger_entries",
		"transaction_items",
		"transactions",
		"till_movements",
		"till_sessions",
		"time_clock_entries",
	}
	if *products {
		tables = append(tables, "price_history", "products")
	}
	if *users {
		tables = append(tables, "users")
	}

	for _, table := range tables {
		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			log.Fatalf("count %s: %v", table, err)
		}
		if !*apply {
			fmt.Printf("would delete %d rows from %s\n", count, table)
			continue
		}
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("delete %s: %v", table, err)
		}
		fmt.Printf("deleted %d rows from %s\n", count, table)
	}

	if *apply && !*products {
		// Catalog survives but its balances restart at zero; the next
		// "initial" ledger entry re-seeds stock.
		if err := db.Exec("UPDATE products SET on_hand = 0").Error; err != nil {
			log.Fatalf("reset on_hand: %v", err)
		}
		fmt.Println("reset on_hand to 0 for all products")
	}

	if !*apply {
		fmt.Println("\ndry run — re-run with -yes to apply")
	}
}
