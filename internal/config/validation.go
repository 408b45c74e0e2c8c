// Package config provides configuration management for the racing data
// aggregation and analysis engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions.
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidationFunc("environment", validateEnvironment)
	v.RegisterValidationFunc("loglevel", validateLogLevel)
	v.RegisterValidationFunc("discipline", validateDiscipline)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration.
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules.
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field.
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field.
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateDiscipline validates a racing discipline against the closed set
// this engine understands.
func validateDiscipline(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Thoroughbred", "Harness", "Greyhound", "QuarterHorse":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations.
func validateCrossField(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.Engine.MinRequiredAdapters > len(cfg.DataSources) {
		return fmt.Errorf("min_required_adapters (%d) exceeds the number of configured data sources (%d)",
			cfg.Engine.MinRequiredAdapters, len(cfg.DataSources))
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string.
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "discipline":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: Thoroughbred, Harness, Greyhound, QuarterHorse\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
