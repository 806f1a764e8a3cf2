package main

import (
	"fmt"
	"log"

	"github.com/justinabrahms/squarechess/internal/auth"
)

func main() {
	secret, err := auth.NewSecret()
	if err != nil {
		log.Fatal("Failed to generate secret:", err)
	}

	fmt.Println("=== SEAT TOKEN SECRET (Keep this secret!) ===")
	fmt.Println("Set this as auth.seat_secret in config.yaml or as SQUARECHESS_AUTH_SEAT_SECRET:")
	fmt.Println()
	fmt.Println(secret)
	fmt.Println()
	fmt.Println("=== IMPORTANT SECURITY NOTES ===")
	fmt.Println("1. NEVER commit the secret to version control")
	fmt.Println("2. Rotating the secret invalidates every seat token already issued")
	fmt.Println("3. Without a configured secret the server generates one per run")
}
