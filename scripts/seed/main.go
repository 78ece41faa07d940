// Seed adds tasks for a test user. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"todo-api/internal/database"
)

func main() {
	ctx := context.Background()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "todo.db"
	}
	total := 1000
	if v := os.Getenv("SEED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			total = n
		}
	}
	userID := "seed-user"
	if v := os.Getenv("SEED_USER"); v != "" {
		userID = v
	}

	db, dialect, err := database.Open(ctx, url, 10)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Database connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	priorities := []string{"low", "medium", "high"}
	statuses := []string{"open", "done"}
	const batchSize = 100
	start := time.Now()

	for inserted := 0; inserted < total; {
		n := batchSize
		if total-inserted < n {
			n = total - inserted
		}
		args := make([]interface{}, 0, n*7)
		placeholders := make([]string, 0, n)
		for i := 0; i < n; i++ {
			seq := inserted + i + 1
			p := len(args)
			placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				p+1, p+2, p+3, p+4, p+5, p+6, p+7))
			now := time.Now().UTC()
			args = append(args,
				userID,
				fmt.Sprintf("Task %d", seq),
				statuses[seq%len(statuses)],
				priorities[seq%len(priorities)],
				fmt.Sprintf("seed,batch-%d", seq/batchSize),
				now,
				now,
			)
		}
		q := `INSERT INTO tasks (user_id, title, status, priority, tags, created_at, updated_at) VALUES ` +
			strings.Join(placeholders, ",")
		if _, err := db.ExecContext(ctx, q, args...); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		inserted += n
		fmt.Printf("\rInserted %d / %d", inserted, total)
	}

	fmt.Printf("\nDone: %d tasks in %v\n", total, time.Since(start))
}
