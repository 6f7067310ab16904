/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package memory

import (
	"infini.sh/insight/core/kv"
	"infini.sh/insight/core/orm"
)

// Module registers the in-process store, mostly useful for development and
// throwaway environments.
type Module struct {
	store *Store
}

func (module *Module) Name() string {
	return "memory"
}

func (module *Module) Setup() {
	module.store = NewStore()
	kv.Register("memory", module.store)
	orm.Register(orm.NewKVStoreORM(module.store))
}

func (module *Module) Start() error {
	return module.store.Open()
}

func (module *Module) Stop() error {
	return module.store.Close()
}
