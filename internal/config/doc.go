// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values
//	2. A YAML file (config.yaml, configs/config.yaml or $GRADES_CONFIG_FILE)
//	3. Legacy variables SECRET_KEY, AUTH_USERNAME and AUTH_PASSWORD
//	4. Environment variables prefixed with GRADES_
//
// A .env file in the working directory is loaded into the environment first
// and never overrides variables that are already set.
//
// # Environment Variables
//
//	GRADES_SERVER_PORT=8050
//	GRADES_DATA_SOURCE=data/grades.csv
//	GRADES_DATA_BACKFILL_YEARS=true
//	GRADES_DATA_REFRESH_INTERVAL=5m
//	GRADES_AUTH_USERNAME=parent
//	GRADES_AUTH_PASSWORD='$2a$10$...'
//	GRADES_AUTH_SECRET_KEY=change-me
//
// # Validation
//
// Load fails when authentication is enabled and any of the username,
// password or secret key is empty. Callers treat that as fatal.
package config
