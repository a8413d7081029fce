package main

import (
	"log"

	"github.com/jobkit/cv-copilot/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; environment variables may come from the shell.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
