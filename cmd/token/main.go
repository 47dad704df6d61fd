// token mints a service token for a collaborator process, e.g.
//
//	go run ./cmd/token -service metrics-poller -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"social-ledger/internal/auth"

	"github.com/joho/godotenv"
)

func main() {
	service := flag.String("service", "", "collaborator service name (e.g. content-generation)")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *service == "" {
		log.Fatal("-service is required")
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	secret := os.Getenv("SERVICE_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("SERVICE_TOKEN_SECRET must be set")
	}

	token, err := auth.NewTokenService(secret).Issue(*service, *ttl)
	if err != nil {
		log.Fatal("Failed to issue token:", err)
	}
	fmt.Println(token)
}
