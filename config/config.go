package config

// Store backends
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config for application setup
type Config interface {
	// Environment is the key namespace, e.g. prod or test
	Environment() string
	StoreBackend() (string, error)
	RedisURL() string
	BadgerPath() (string, error)
	Port() int
	PushoverAPIToken() (string, error)
	PushoverUserKey() (string, error)
	PushoverDevice() string
	LogLevel() string
	LogFormat() string
	LogFile() string
}
