// Package autoload reads a .env file from the working directory on import.
package autoload

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("dotenv autoload: %v", err)
	}
}
