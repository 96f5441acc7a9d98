package config

var defaults = map[string]any{
	"secret":      "",
	"session_ttl": 8 * 60 * 60, // 8 hours
	"log_level":   "info",

	"base_url":    "http://localhost:8080/",
	"listen_addr": ":8080",

	"tracker_timeout": 30,

	"smtp.host":     "",
	"smtp.port":     25,
	"smtp.username": "",
	"smtp.password": "",
	"smtp.from":     "",

	"storage.type":       "sqlite",
	"storage.local.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
