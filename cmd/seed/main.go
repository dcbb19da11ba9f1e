package main

import (
	"log"

	"github.com/atma-chethana/counselling-api/config"
	"github.com/atma-chethana/counselling-api/database"
)

// Seeds the database with sample students and appointments for local
// development. Existing counselling data is wiped, admin accounts survive.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatal(err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal(err)
	}

	seeder := database.NewSeeder(store.DB())
	if err := seeder.SeedSampleData(); err != nil {
		log.Fatal(err)
	}

	log.Println("Sample data created")
}
