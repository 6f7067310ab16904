/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package env

import (
	"os"
	"path"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/config"
	"infini.sh/insight/core/errors"
)

// Env is environment object of app
type Env struct {
	name    string
	desc    string
	version string

	configFile string

	// static configs
	SystemConfig *config.SystemConfig

	IsDebug bool

	LoggingLevel string

	init bool
}

func NewEnv(name, desc, ver, configFile string, isDebug bool) *Env {
	return &Env{
		name:       name,
		desc:       desc,
		version:    ver,
		configFile: configFile,
		IsDebug:    isDebug,
	}
}

func (env *Env) GetAppName() string {
	return env.name
}

func (env *Env) GetVersion() string {
	return env.version
}

// Init loads the config file and prepares the working directories.
func (env *Env) Init() *Env {
	if env.init {
		return env
	}

	sysConfig := &config.SystemConfig{
		LoggingLevel: "info",
		PathConfig: config.PathConfig{
			Data: "data",
			Log:  "log",
		},
		APIConfig: config.APIConfig{
			Enabled: true,
			Binding: "0.0.0.0:9100",
		},
		StorageConfig: config.StorageConfig{
			Driver: "badger",
		},
	}

	if env.configFile != "" {
		cfg, err := config.LoadFile(env.configFile)
		if err != nil {
			panic(errors.Wrapf(err, "failed to load config file [%v]", env.configFile))
		}
		if err := cfg.Unpack(sysConfig); err != nil {
			panic(errors.Wrapf(err, "invalid config file [%v]", env.configFile))
		}
		sysConfig.ConfigFile = env.configFile
	}

	env.SystemConfig = sysConfig
	env.LoggingLevel = sysConfig.LoggingLevel

	if err := os.MkdirAll(env.GetDataDir(), 0755); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(env.GetLogDir(), 0755); err != nil {
		panic(err)
	}

	env.init = true
	log.Debugf("environment prepared, data dir: %v", env.GetDataDir())
	return env
}

func (env *Env) GetDataDir() string {
	return path.Join(env.SystemConfig.PathConfig.Data, env.name)
}

func (env *Env) GetLogDir() string {
	return path.Join(env.SystemConfig.PathConfig.Log, env.name)
}

// GetModuleConfig returns the config section registered for a module,
// an empty config when the section is absent.
func (env *Env) GetModuleConfig(name string) *config.Config {
	if env.SystemConfig != nil && env.SystemConfig.Modules != nil {
		if cfg, ok := env.SystemConfig.Modules[name]; ok && cfg != nil {
			return cfg
		}
	}
	return config.NewConfig()
}
