package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv pulls a local .env file into the process environment. Deployments
// without one run on whatever the environment already carries.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}
}
