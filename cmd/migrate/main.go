package main

import (
	"log"

	"social-ledger/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("🔄 Running database migrations...")

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	report, err := database.Verify(db)
	if err != nil {
		log.Fatal("Failed to verify database:", err)
	}
	log.Printf("Record counts: %v", report.Counts)
	log.Printf("Indexes: %v", report.Indexes)

	log.Println("✅ Database migrations completed successfully")
}
