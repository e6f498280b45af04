package config

import (
	"github.com/spf13/viper"
)

// Environment variables understood by board.
const (
	DBHostEnv   = "DB_HOST"
	DBPortEnv   = "DB_PORT"
	DBNameEnv   = "DB_NAME"
	DBUserEnv   = "DB_USER"
	DBPassEnv   = "DB_PASS"
	EndpointEnv = "BOARD_ENDPOINT"
	LanguageEnv = "BOARD_LANG"
)

// NewEnv returns viper instance bound to board environment variables.
func NewEnv() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv("db_host", DBHostEnv)
	_ = v.BindEnv("db_port", DBPortEnv)
	_ = v.BindEnv("db_name", DBNameEnv)
	_ = v.BindEnv("db_user", DBUserEnv)
	_ = v.BindEnv("db_pass", DBPassEnv)
	_ = v.BindEnv("endpoint", EndpointEnv)
	_ = v.BindEnv("language", LanguageEnv)
	return v
}

// ApplyEnv overrides config values with values from environment.
//
// Postgres options are overridden field by field. When database is not
// configured and DB_HOST is set, Postgres connection is configured with
// defaults for unset fields.
func (c *Config) ApplyEnv(v *viper.Viper) {
	options, ok := c.DB.Options.(PostgresOptions)
	if c.DB.Options == nil && v.IsSet("db_host") {
		options = PostgresOptions{
			Name:     "boarddb",
			User:     "admin",
			Password: "admin123",
		}
		ok = true
	}
	if ok {
		if v.IsSet("db_host") {
			options.Host = v.GetString("db_host")
		}
		if v.IsSet("db_port") {
			options.Port = v.GetInt("db_port")
		}
		if v.IsSet("db_name") {
			options.Name = v.GetString("db_name")
		}
		if v.IsSet("db_user") {
			options.User = v.GetString("db_user")
		}
		if v.IsSet("db_pass") {
			options.Password = v.GetString("db_pass")
		}
		c.DB.Options = options
	}
	if v.IsSet("endpoint") || v.IsSet("language") {
		if c.Client == nil {
			c.Client = &Client{}
		}
		if v.IsSet("endpoint") {
			c.Client.Endpoint = v.GetString("endpoint")
		}
		if v.IsSet("language") {
			c.Client.Language = v.GetString("language")
		}
	}
}
