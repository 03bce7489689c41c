// Command main runs the database seeder for Truckstop.
package main

import (
	"flag"
	"log"

	"truckstop/internal/config"
	"truckstop/internal/database"
	"truckstop/internal/seed"
)

func main() {
	numConsumers := flag.Int("consumers", 30, "Number of website users to create")
	numOwners := flag.Int("owners", 10, "Number of truck owners to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d consumers, %d owners, clean=%v\n", *numConsumers, *numOwners, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Populate(*numConsumers, *numOwners); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
