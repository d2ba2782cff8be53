// Package config provides configuration management for the synchronization service.
//
// It uses Viper to read environment variables, optionally loaded from a .env
// file first. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown timeout
//   - Storage: S3/MinIO credentials and the bucket holding remote items
//   - Log: logging level and format
//   - Database: MySQL or SQLite connection details
//   - Sync: completion mode, dispatch error policy and run interval
//   - Contacts: contacts feature settings
//
// Keys map to environment variables by section, e.g. SYNC_COMPLETION or CONTACTS_TWO_WAY.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
