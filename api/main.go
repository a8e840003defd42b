package main

import (
	"github.com/joho/godotenv"

	"github.com/lattica-health/companion-api/api/cmd/companion"
)

func main() {
	_ = godotenv.Load()
	companion.Execute()
}
