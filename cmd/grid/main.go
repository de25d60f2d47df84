package main

import (
	"fmt"
	"log"
	"os"

	"tableflip.dev/grid/pkg/commands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "grid: something broke. Please try again.")
			log.Printf("panic: %v", r)
			os.Exit(2)
		}
	}()

	if err := commands.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
