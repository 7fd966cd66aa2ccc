package main

import (
	"log"
	"os"

	"usagereports/cmd"
	"usagereports/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cmd.Execute(cnf, os.Args[1:]); err != nil {
		log.Printf("Failed to execute command: %v", err)
		os.Exit(1)
	}
}
