// Package config provides configuration management for the host process.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all process settings,
// divided into subsections:
//   - Server: embedded server settings (name, host, port, metrics, tuning)
//   - Mount: the application mounted by the serve command (root, path,
//     rackup descriptor, environment, dispatch)
//   - Storage: S3/MinIO credentials and bucket settings for bucket apps
//   - Log: logging level and format
//
// Defaults come from the 'default' struct tags on the section types, so
// the documented default values live next to the fields they describe.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
