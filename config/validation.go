package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test tolerate the built-in defaults;
// production refuses to start on placeholder credentials.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errors = append(errors, "database host, port and name are required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT secret is required")
	}

	if IsProduction() {
		if cfg.JWTSecret == "your-secret-key" {
			errors = append(errors, "JWT_SECRET must be set explicitly in production")
		}
		if cfg.DBPassword == "" || cfg.DBPassword == "postgres" {
			errors = append(errors, "DB_PASSWORD must be set explicitly in production")
		}
		if cfg.AdminPassword == "admin123" {
			errors = append(errors, "ADMIN_PASSWORD must be set explicitly in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be disabled in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
