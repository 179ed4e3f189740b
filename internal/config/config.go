package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the server.
type Config struct {
	Driver     string // "postgres" or "sqlite"
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	Port     string
	LogLevel string

	// Google Calendar mirroring is enabled only when both are set.
	GoogleCredentialsFile string
	GoogleCalendarID      string
}

// Load reads configuration from the environment with documented defaults.
func Load() Config {
	viper.AutomaticEnv()

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_USER", "todo_app")
	viper.SetDefault("DB_PASSWORD", "todo123")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "todo_system")
	viper.SetDefault("DB_PATH", "taskboard.db")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("LOG_LEVEL", "debug")

	return Config{
		Driver:                viper.GetString("DB_DRIVER"),
		DBUser:                viper.GetString("DB_USER"),
		DBPassword:            viper.GetString("DB_PASSWORD"),
		DBHost:                viper.GetString("DB_HOST"),
		DBPort:                viper.GetString("DB_PORT"),
		DBName:                viper.GetString("DB_NAME"),
		SQLitePath:            viper.GetString("DB_PATH"),
		Port:                  viper.GetString("PORT"),
		LogLevel:              viper.GetString("LOG_LEVEL"),
		GoogleCredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
		GoogleCalendarID:      viper.GetString("GOOGLE_CALENDAR_ID"),
	}
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// CalendarEnabled reports whether Google Calendar mirroring is configured.
func (c Config) CalendarEnabled() bool {
	return c.GoogleCredentialsFile != "" && c.GoogleCalendarID != ""
}
