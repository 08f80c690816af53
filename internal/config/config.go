// Package config loads the service configuration from environment
// variables, with optional .env support for local runs. Configuration is
// read once at startup and immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads.
type Config struct {
	// Notion source database.
	NotionToken      string
	NotionDatabaseID string

	// GitHub target repository.
	GithubToken string
	GithubOwner string
	GithubRepo  string

	// Optional Projects v2 target. Empty ProjectID disables project
	// mutations entirely.
	ProjectID             string
	ProjectStatusFieldID  string
	ProjectStatusOptionID string
	CreateDraft           bool

	DryRun       bool
	PollInterval time.Duration
	DBPath       string
	RESTPort     string
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		NotionToken:      os.Getenv("NOTION_TOKEN"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),

		GithubToken: os.Getenv("GITHUB_TOKEN"),
		GithubOwner: os.Getenv("GITHUB_OWNER"),
		GithubRepo:  os.Getenv("GITHUB_REPO"),

		ProjectID:             os.Getenv("GITHUB_PROJECT_ID"),
		ProjectStatusFieldID:  os.Getenv("GITHUB_PROJECT_STATUS_FIELD_ID"),
		ProjectStatusOptionID: os.Getenv("GITHUB_PROJECT_STATUS_BACKLOG_OPTION_ID"),
		CreateDraft:           getEnvBool("GITHUB_PROJECT_CREATE_DRAFT"),

		DryRun:       getEnvBool("DRY_RUN"),
		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 120)) * time.Second,
		DBPath:       getEnv("DB_PATH", "sync.db"),
		RESTPort:     getEnv("REST_PORT", "8080"),
	}
}

// Validate checks that every required value is present.
func (c *Config) Validate() error {
	var missing []string
	if c.NotionToken == "" {
		missing = append(missing, "NOTION_TOKEN")
	}
	if c.NotionDatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	if c.GithubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.GithubOwner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if c.GithubRepo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
