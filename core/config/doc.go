// Package config provides configuration management for Flashdeck.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, CORS origins, body limit)
//   - Database: connection details (mysql, postgres or sqlite)
//   - Storage: S3/MinIO credentials and bucket for import archives
//   - Log: logging level and format
//   - Auth: JWT signing secret and token lifetime
//   - Mail: SendGrid credentials and verification link base URL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
