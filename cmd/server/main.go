package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"route-optimizer-mcp/internal/adapters/dataset"
	"route-optimizer-mcp/internal/adapters/sessionstore"
	"route-optimizer-mcp/internal/adapters/solver"
	"route-optimizer-mcp/internal/mcp"
	"route-optimizer-mcp/internal/platform/db"
	"route-optimizer-mcp/internal/ports"
	"route-optimizer-mcp/internal/services"
)

const (
	serverName    = "route-optimizer"
	serverVersion = "0.1.0"
)

// main is the application composition root. It wires concrete adapters
// (solver client, session store, CSV reader) behind ports and starts the
// MCP server on the selected transport.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	apiKey := os.Getenv("OMELET_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("OMELET_API_KEY is required")
	}

	client, err := solver.NewClient(getEnv("OMELET_BASE_URL", ""), apiKey)
	if err != nil {
		log.Fatal(err)
	}

	store, err := openStore()
	if err != nil {
		log.Fatal(err)
	}

	workflow := services.NewWorkflow(store, dataset.NewCSVReader(), services.NewOrchestrator(client))
	srv := mcp.NewServer(serverName, serverVersion, workflow)

	// SSE transport when an address is configured, stdio otherwise.
	if addr := os.Getenv("MCP_HTTP_ADDR"); addr != "" {
		log.Printf("Server listening transport=sse addr=%s", addr)
		log.Fatal(srv.ServeSSE(addr))
	}
	log.Printf("Server listening transport=stdio")
	log.Fatal(srv.ServeStdio())
}

// openStore selects the Postgres session store when DATABASE_URL is set,
// the JSON file store otherwise.
func openStore() (ports.SessionStore, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, err
		}
		return sessionstore.NewPostgresStore(pg), nil
	}
	return sessionstore.NewFileStore(getEnv("SESSION_DIR", "data/sessions"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
