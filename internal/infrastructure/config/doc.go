// Package config handles loading and validating movie catalog configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The JWT secret and password salt should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - Changing the password salt, algorithm or iteration count invalidates
//     every stored password hash
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
