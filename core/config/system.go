/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package config

// PathConfig stores path settings
type PathConfig struct {
	Data string `config:"data"`
	Log  string `config:"logs"`
}

// APIConfig stores the http api server settings
type APIConfig struct {
	Enabled     bool     `config:"enabled"`
	Binding     string   `config:"bind"`
	AuthEnabled bool     `config:"auth_enabled"`
	JWTSecret   string   `config:"jwt_secret"`
	CORSOrigins []string `config:"cors_origins"`
}

// StorageConfig selects and parameterizes the document store backend.
type StorageConfig struct {
	Driver string `config:"driver"` // badger | memory
	Path   string `config:"path"`
}

// SystemConfig is a high priority config, init from the environment or
// startup, can't be changed on the fly, need to restart to make config apply
type SystemConfig struct {
	ConfigFile string

	PathConfig    PathConfig    `config:"path"`
	APIConfig     APIConfig     `config:"api"`
	StorageConfig StorageConfig `config:"storage"`

	LoggingLevel string `config:"log_level"`

	Modules map[string]*Config `config:"modules"`
}
