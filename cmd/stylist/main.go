// Package main is the terminal client for the stylist API. Point it at a
// running server with STYLIST_SERVER (default http://localhost:4000).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/OfirNeeman/ai-stylist/internal/client"
)

func main() {
	serverURL := os.Getenv("STYLIST_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:4000"
	}

	store, err := client.NewTokenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	api := client.NewAPI(serverURL)
	session := client.NewSession(api, store)
	app := client.NewApp(session, api, os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
