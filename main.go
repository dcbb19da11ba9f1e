package main

import (
	"log"

	"github.com/atma-chethana/counselling-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
