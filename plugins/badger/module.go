/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package badger

import (
	"path"

	"infini.sh/insight/core/global"
	"infini.sh/insight/core/kv"
	"infini.sh/insight/core/orm"
)

type Config struct {
	Enabled bool `config:"enabled"`

	Path               string `config:"path"`
	InMemoryMode       bool   `config:"memory_mode"`
	SyncWrites         bool   `config:"sync_writes"`
	MemTableSize       int64  `config:"mem_table_size"`
	ValueLogFileSize   int64  `config:"value_log_file_size"`
	ValueLogMaxEntries uint32 `config:"value_log_max_entries"`
}

type Module struct {
	cfg   *Config
	store *Store
}

func (module *Module) Name() string {
	return "badger"
}

func (module *Module) Setup() {
	module.cfg = &Config{
		Enabled:            true,
		MemTableSize:       10 * 1024 * 1024,
		ValueLogFileSize:   1<<30 - 1,
		ValueLogMaxEntries: 1000000,
	}
	cfg := global.Env().GetModuleConfig(module.Name())
	if err := cfg.Unpack(module.cfg); err != nil {
		panic(err)
	}
	if module.cfg.Path == "" {
		module.cfg.Path = path.Join(global.Env().GetDataDir(), "badger")
	}

	if module.cfg.Enabled {
		module.store = NewStore(module.cfg)
		kv.Register("badger", module.store)
		orm.Register(orm.NewKVStoreORM(module.store))
	}
}

func (module *Module) Start() error {
	if module.cfg == nil || !module.cfg.Enabled {
		return nil
	}
	return module.store.Open()
}

func (module *Module) Stop() error {
	if module.store == nil {
		return nil
	}
	return module.store.Close()
}
