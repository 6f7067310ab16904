/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"path"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/global"
	"infini.sh/insight/core/orm"
	"infini.sh/insight/core/task"
	"infini.sh/insight/core/util"
)

type CacheConfig struct {
	Backend string      `config:"backend"`
	TTL     string      `config:"ttl"`
	MaxSize int64       `config:"max_size"`
	Redis   RedisConfig `config:"redis"`
}

type RedisConfig struct {
	Addr     string `config:"addr"`
	Password string `config:"password"`
	DB       int    `config:"db"`
}

type JobConfig struct {
	Timeout    string `config:"timeout"`
	Retention  string `config:"retention"`
	GCInterval string `config:"gc_interval"`
}

type S3Config struct {
	Enabled   bool   `config:"enabled"`
	Endpoint  string `config:"endpoint"`
	AccessKey string `config:"access_key"`
	SecretKey string `config:"secret_key"`
	Bucket    string `config:"bucket"`
	UseSSL    bool   `config:"use_ssl"`
}

type ExportConfig struct {
	Path            string   `config:"path"`
	FilenamePattern string   `config:"filename_pattern"`
	S3              S3Config `config:"s3"`
}

type Config struct {
	Enabled     bool         `config:"enabled"`
	PreviewSize int          `config:"preview_size"`
	Cache       CacheConfig  `config:"cache"`
	Jobs        JobConfig    `config:"jobs"`
	Export      ExportConfig `config:"export"`
}

// Module wires the chart data pipeline into the application lifecycle.
type Module struct {
	cfg *Config
	svc *Service
}

func (module *Module) Name() string {
	return "insight"
}

func (module *Module) Setup() {
	module.cfg = &Config{
		Enabled:     true,
		PreviewSize: 100,
		Cache:       CacheConfig{Backend: "local", TTL: "15m", MaxSize: 10000},
		Jobs:        JobConfig{Timeout: "5m", Retention: "1h", GCInterval: "10m"},
	}
	cfg := global.Env().GetModuleConfig(module.Name())
	if err := cfg.Unpack(module.cfg); err != nil {
		panic(err)
	}
	if !module.cfg.Enabled {
		return
	}
	if module.cfg.Export.Path == "" {
		module.cfg.Export.Path = path.Join(global.Env().GetDataDir(), "exports")
	}

	var cache ResultCache
	switch module.cfg.Cache.Backend {
	case "redis":
		var err error
		cache, err = NewRedisCache(module.cfg.Cache.Redis.Addr, module.cfg.Cache.Redis.Password, module.cfg.Cache.Redis.DB)
		if err != nil {
			panic(err)
		}
	default:
		cache = NewLocalCache(module.cfg.Cache.MaxSize)
	}

	module.svc = NewService(orm.GetHandler(), cache, NewJobTracker(), module.cfg)

	registerAPI(module.svc)
	registerPermissions()

	retention := util.GetDurationOrDefault(module.cfg.Jobs.Retention, 0)
	task.RegisterScheduleTask(task.ScheduleTask{
		Description: "reap finished insight jobs",
		Type:        task.Interval,
		Interval:    module.cfg.Jobs.GCInterval,
		Task: func(ctx context.Context) {
			if n := module.svc.Jobs().GC(retention); n > 0 {
				log.Debugf("reaped %v finished jobs", n)
			}
		},
	})
}

func (module *Module) Start() error {
	return nil
}

func (module *Module) Stop() error {
	if module.svc != nil {
		module.svc.cache.Close()
	}
	return nil
}
