/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Seed Jamaica statutory tables if the store is empty
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: payroll.db)
           Use ":memory:" for in-memory database
  -seed    Seed the Jamaica statutory tables on startup (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payroll.db", "SQLite database path")
	seed := flag.Bool("seed", true, "seed the Jamaica statutory tables if none are stored")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := seedRateTables(context.Background(), store); err != nil {
			log.Printf("Warning: Failed to seed rate tables: %v", err)
		}
	}

	// Create router
	router := api.NewRouter(api.NewHandler(store))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedRateTables stores the bundled Jamaica tables when the database has
// none, so a fresh server can run payroll immediately.
func seedRateTables(ctx context.Context, store *sqlite.Store) error {
	existing, err := store.ListRateTables(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	presets := []string{
		payroll.Jamaica2023JSON("jm-2023"),
		payroll.Jamaica2025JSON("jm-2025"),
	}
	for _, jsonStr := range presets {
		table, err := factory.ParseRateTable(jsonStr)
		if err != nil {
			return err
		}
		if err := store.SaveRateTable(ctx, table); err != nil {
			return err
		}
		log.Printf("[Seed] Stored rate table %s (effective %s)", table.ID,
			table.EffectiveFrom.Format("2006-01-02"))
	}
	return nil
}
