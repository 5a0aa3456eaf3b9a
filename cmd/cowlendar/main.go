package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cheyennechau/Cowlendar-backend/internal/app"

	_ "github.com/cheyennechau/Cowlendar-backend/docs" // Import generated docs
)

// @title Cowlendar API
// @version 1.0
// @description Cow-themed productivity tracker
// @description Polls Google Calendar, estimates daily completion and synthesizes a mood with milk points

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	issueToken := flag.Bool("issue-token", false, "print an access token for the configured user and exit")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if *issueToken {
		token, expiresAt, err := application.IssueToken()
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Printf("%s\n", token)
		log.Printf("Token expires at %s", expiresAt.Format("2006-01-02 15:04:05"))
		return
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to run application: %v", err)
	}
}
