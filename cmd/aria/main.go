package main

import (
	"github.com/joho/godotenv"

	"github.com/lunamir/aria/internal/cli"
)

func main() {
	// Environment overrides may live in a local .env file.
	_ = godotenv.Load()

	cli.Execute()
}
