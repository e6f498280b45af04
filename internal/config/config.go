// Package config contains configuration of board server and console.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/udovin/board/internal/pkg/logs"
)

// Version contains version of board.
var Version = "development"

// Config stores configuration for board server and console.
type Config struct {
	// DB contains database connection config.
	DB DB `json:"db"`
	// SocketFile contains path to unix socket of server.
	SocketFile string `json:"socket_file,omitempty"`
	// Server contains API server config.
	Server *Server `json:"server,omitempty"`
	// Client contains console and client config.
	Client *Client `json:"client,omitempty"`
	// LogLevel contains level of logging.
	LogLevel LogLevel `json:"log_level,omitempty"`
}

// Server contains server config.
type Server struct {
	// Host contains server host.
	Host string `json:"host"`
	// Port contains server port.
	Port int `json:"port"`
}

// Address returns string representation of server address.
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Client contains client config.
type Client struct {
	// Endpoint contains base URL of posts API.
	Endpoint string `json:"endpoint"`
	// Timeout contains request timeout, zero means no timeout.
	Timeout Duration `json:"timeout,omitempty"`
	// Language contains language of console messages.
	Language string `json:"language,omitempty"`
}

// Duration represents duration that is encoded as string like "5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	value, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*d = Duration(value)
	return nil
}

// LogLevel represents level of logging.
type LogLevel log.Lvl

func (l LogLevel) MarshalJSON() ([]byte, error) {
	switch log.Lvl(l) {
	case log.DEBUG:
		return json.Marshal("debug")
	case log.INFO:
		return json.Marshal("info")
	case log.WARN:
		return json.Marshal("warn")
	case log.ERROR:
		return json.Marshal("error")
	case log.OFF:
		return json.Marshal("off")
	default:
		return json.Marshal(uint8(l))
	}
}

func (l *LogLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var value uint8
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*l = LogLevel(value)
		return nil
	}
	level, err := logs.ParseLevel(name)
	if err != nil {
		return err
	}
	*l = LogLevel(level)
	return nil
}

var configFuncs = template.FuncMap{
	"json": func(value any) (string, error) {
		data, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(data), nil
	},
	"file": func(name string) (string, error) {
		bytes, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(bytes), "\r\n"), nil
	},
	"env": func(name string, defaults ...string) (string, error) {
		if value, ok := os.LookupEnv(name); ok {
			return value, nil
		}
		if len(defaults) > 0 {
			return defaults[0], nil
		}
		return "", fmt.Errorf("environment variable %q does not exist", name)
	},
}

// LoadFromFile loads configuration from json file.
//
// File is executed as text/template with functions "json", "file"
// and "env" before parsing.
func LoadFromFile(file string) (Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, err
	}
	tmpl, err := template.New("config").
		Funcs(configFuncs).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return Config{}, err
	}
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, map[string]any{}); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.NewDecoder(&buffer).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
