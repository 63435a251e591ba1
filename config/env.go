package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvironmentEnv name
	EnvironmentEnv = "ENV"
	// StoreBackendEnv name
	StoreBackendEnv = "STORE_BACKEND"
	// RedisURLEnv name, takes precedence over RedisHostEnv and RedisPortEnv
	RedisURLEnv = "REDIS_URL"
	// RedisHostEnv name
	RedisHostEnv = "REDIS_HOST"
	// RedisPortEnv name
	RedisPortEnv = "REDIS_PORT"
	// BadgerPathEnv name
	BadgerPathEnv = "BADGER_PATH"
	// PortEnv name
	PortEnv = "PORT"
	// PushoverAPITokenEnv name
	PushoverAPITokenEnv = "PUSHOVER_API_TOKEN"
	// PushoverUserKeyEnv name
	PushoverUserKeyEnv = "PUSHOVER_USER_KEY"
	// PushoverDeviceEnv name
	PushoverDeviceEnv = "PUSHOVER_DEVICE"
	// LogLevelEnv name
	LogLevelEnv = "LOG_LEVEL"
	// LogFormatEnv name
	LogFormatEnv = "LOG_FORMAT"
	// LogFileEnv name
	LogFileEnv = "LOG_FILE"
)

var (
	// ErrEnvVariableNotSet occurs when an environment variable is not set
	ErrEnvVariableNotSet = errors.New("environment variable is not set")
	// ErrInvalidValue occurs when an environment variable holds an unsupported value
	ErrInvalidValue = errors.New("environment variable has an invalid value")
)

// Env variable Config implementation
type Env struct {
	v *viper.Viper
}

// NewEnv reads the environment, after loading any of the given dotenv files
// (.env when none are given). Missing dotenv files are ignored and variables
// already set in the environment win over the files.
func NewEnv(files ...string) (*Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load dotenv files %v: %w", files, err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvironmentEnv, "prod")
	v.SetDefault(StoreBackendEnv, BackendRedis)
	v.SetDefault(RedisHostEnv, "localhost")
	v.SetDefault(RedisPortEnv, 6379)
	v.SetDefault(PortEnv, 8080)
	v.SetDefault(LogLevelEnv, "info")
	v.SetDefault(LogFormatEnv, "json")

	return &Env{v: v}, nil
}

// Environment namespace for stored keys
func (e *Env) Environment() string {
	return e.v.GetString(EnvironmentEnv)
}

// StoreBackend to persist to, redis or badger
func (e *Env) StoreBackend() (string, error) {
	backend := strings.ToLower(e.v.GetString(StoreBackendEnv))
	switch backend {
	case BackendRedis, BackendBadger:
		return backend, nil
	}

	return "", fmt.Errorf(
		"unsupported store backend %q from env variable %s: %w",
		backend,
		StoreBackendEnv,
		ErrInvalidValue,
	)
}

// RedisURL to connect to
func (e *Env) RedisURL() string {
	if url := e.v.GetString(RedisURLEnv); url != "" {
		return url
	}

	return fmt.Sprintf("redis://%s:%d", e.v.GetString(RedisHostEnv), e.v.GetInt(RedisPortEnv))
}

// BadgerPath for the database directory
func (e *Env) BadgerPath() (string, error) {
	return e.required(BadgerPathEnv, "badger path")
}

// Port for the HTTP API
func (e *Env) Port() int {
	return e.v.GetInt(PortEnv)
}

// PushoverAPIToken getter
func (e *Env) PushoverAPIToken() (string, error) {
	return e.required(PushoverAPITokenEnv, "pushover API token")
}

// PushoverUserKey of the reminder recipient
func (e *Env) PushoverUserKey() (string, error) {
	return e.required(PushoverUserKeyEnv, "pushover user key")
}

// PushoverDevice to target, empty for all of the user's devices
func (e *Env) PushoverDevice() string {
	return e.v.GetString(PushoverDeviceEnv)
}

// LogLevel getter
func (e *Env) LogLevel() string {
	return e.v.GetString(LogLevelEnv)
}

// LogFormat getter, json or console
func (e *Env) LogFormat() string {
	return e.v.GetString(LogFormatEnv)
}

// LogFile to additionally write rotated logs to, empty for none
func (e *Env) LogFile() string {
	return e.v.GetString(LogFileEnv)
}

func (e *Env) required(name, description string) (string, error) {
	val := e.v.GetString(name)
	if val == "" {
		return "", fmt.Errorf(
			"unable to get %s from env variable %s: %w",
			description,
			name,
			ErrEnvVariableNotSet,
		)
	}

	return val, nil
}
