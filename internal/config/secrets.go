// Package config provides configuration management for the racing data
// aggregation and analysis engine.
package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsOverlay represents the structure of secrets stored in AWS Secrets
// Manager: database credentials plus per-adapter API keys/logins keyed by
// adapter name.
type SecretsOverlay struct {
	DatabasePassword string            `json:"database_password"`
	APIKeys          map[string]string `json:"api_keys"`
	AdapterUsernames map[string]string `json:"adapter_usernames"`
	AdapterPasswords map[string]string `json:"adapter_passwords"`
}

// LoadSecretsFromAWS retrieves secrets from AWS Secrets Manager and overlays
// them onto the configuration.
func LoadSecretsFromAWS(cfg *Config, region string, secretName string) error {
	secrets, err := GetSecretsFromAWS(region, secretName)
	if err != nil {
		return err
	}

	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
	}

	for i, source := range cfg.DataSources {
		if key, ok := secrets.APIKeys[source.Name]; ok && key != "" {
			cfg.DataSources[i].APIKey = key
		}
		if user, ok := secrets.AdapterUsernames[source.Name]; ok && user != "" {
			cfg.DataSources[i].Username = user
		}
		if pass, ok := secrets.AdapterPasswords[source.Name]; ok && pass != "" {
			cfg.DataSources[i].Password = pass
		}
	}

	return nil
}

// GetSecretsFromAWS retrieves raw secrets from AWS Secrets Manager without
// applying them.
func GetSecretsFromAWS(region string, secretName string) (*SecretsOverlay, error) {
	ctx := context.Background()

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}

	result, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get secret from AWS Secrets Manager: %w", err)
	}

	var secrets SecretsOverlay
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse secret binary: %w", err)
		}
	default:
		return nil, fmt.Errorf("no secret data found in AWS Secrets Manager")
	}

	return &secrets, nil
}
