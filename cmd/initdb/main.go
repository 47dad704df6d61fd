// initdb rebuilds the schema from scratch. Destructive: every table is
// dropped first. Intended for test bootstrapping and local resets.
package main

import (
	"flag"
	"log"

	"social-ledger/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	confirmed := flag.Bool("yes", false, "confirm dropping and rebuilding all tables")
	flag.Parse()

	if !*confirmed {
		log.Fatal("Refusing to drop tables without --yes")
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbConfig := database.LoadConfig()
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("🔄 Recreating database schema...")

	if err := database.Recreate(db); err != nil {
		log.Fatal("Failed to recreate schema:", err)
	}

	report, err := database.Verify(db)
	if err != nil {
		log.Fatal("Failed to verify database:", err)
	}
	log.Printf("Record counts: %v", report.Counts)
	log.Printf("Indexes: %v", report.Indexes)

	log.Println("✅ Database schema recreated")
}
