package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/jasstafel/jass-api/cmd/app"
)

// @title        Jasstafel API
// @version      1.0
// @description  Scorekeeping for Jass sessions, matches and rounds.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
