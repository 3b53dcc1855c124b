package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from a local .env file when one exists. Deployed
// environments set real env vars, so a missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
		return
	}
	log.Println("Env loaded successfully")
}
