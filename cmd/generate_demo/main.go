// Command generate_demo creates a demo library database with public domain
// books, a few members and open checkouts, one of them overdue.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entrypoint"
	"github.com/mrlokans/library/internal/library"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoBook struct {
	Title  string
	Author string
	ISBN   string
}

type demoLoan struct {
	Email   string
	ISBN    string
	DaysAgo int
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	cfg := &config.Config{
		Database: config.Database{Path: *dbPath},
		Ledger:   config.Ledger{LoanPeriod: config.DefaultLoanPeriod, DailyLateFee: config.DefaultDailyLateFee},
		Admin:    config.Admin{Email: config.DefaultAdminEmail, Password: "demo-admin"},
		Auth:     config.Auth{BcryptCost: 10},
	}

	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer app.Close()

	ctx := context.Background()

	if err := app.EnsureAdmin(); err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	for _, b := range publicDomainBooks() {
		if _, err := app.Catalog.AddBook(ctx, b.Title, b.Author, b.ISBN); err != nil {
			log.Printf("Failed to add %s: %v", b.Title, err)
			continue
		}
		log.Printf("Added: %s by %s", b.Title, b.Author)
	}
	if err := app.Settings.MarkCatalogSeeded(time.Now().UTC()); err != nil {
		log.Printf("Failed to mark catalog seeded: %v", err)
	}

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		if _, err := app.Auth.Register(email, "demo"); err != nil {
			log.Fatalf("Failed to register %s: %v", email, err)
		}
		log.Printf("Registered member %s (password: demo)", email)
	}

	now := time.Now().UTC()
	for _, loan := range demoLoans() {
		who := library.Identity{Email: loan.Email}
		result, err := app.Ledger.CheckOut(ctx, who, loan.ISBN, now.AddDate(0, 0, -loan.DaysAgo))
		if err != nil {
			log.Printf("Failed to check out %s for %s: %v", loan.ISBN, loan.Email, err)
			continue
		}
		log.Printf("Checked out %s to %s, due %s", result.Checkout.Book.Title, loan.Email, result.Checkout.DueTime.Format("2006-01-02"))
	}

	log.Printf("Demo database ready. Log in as %s / %s", cfg.Admin.Email, cfg.Admin.Password)
}

func publicDomainBooks() []demoBook {
	return []demoBook{
		{"Pride and Prejudice", "Jane Austen", "9780141439518"},
		{"Emma", "Jane Austen", "9780141439587"},
		{"Moby-Dick", "Herman Melville", "9780142437247"},
		{"Frankenstein", "Mary Shelley", "9780141439471"},
		{"Dracula", "Bram Stoker", "9780141439846"},
		{"The Adventures of Sherlock Holmes", "Arthur Conan Doyle", "9780140439076"},
		{"Meditations", "Marcus Aurelius", "9780140449334"},
		{"The Picture of Dorian Gray", "Oscar Wilde", "9780141439570"},
		{"Walden", "Henry David Thoreau", "9780691096124"},
		{"Crime and Punishment", "Fyodor Dostoevsky", "9780140449136"},
	}
}

// demoLoans start in the past; anything older than the loan period is overdue.
func demoLoans() []demoLoan {
	return []demoLoan{
		{Email: "alice@example.com", ISBN: "9780142437247", DaysAgo: 3},
		{Email: "alice@example.com", ISBN: "9780141439846", DaysAgo: 20},
		{Email: "bob@example.com", ISBN: "9780140449334", DaysAgo: 10},
	}
}
