/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package module

import (
	log "github.com/cihub/seelog"
	"infini.sh/insight/core/global"
)

// Module defines system level module structure
type Module interface {
	Setup()
	Start() error
	Stop() error
	Name() string
}

type Modules struct {
	system []Module
	user   []Module
}

var m = &Modules{}

func RegisterSystemModule(mod Module) {
	m.system = append(m.system, mod)
}

func RegisterUserPlugin(mod Module) {
	m.user = append(m.user, mod)
}

func enabled(name string) bool {
	return global.Env().GetModuleConfig(name).Enabled(true)
}

func Start() {
	for _, v := range m.system {
		if !enabled(v.Name()) {
			log.Debugf("module [%v] is disabled", v.Name())
			continue
		}
		v.Setup()
		log.Debug("setup module: ", v.Name())
	}
	for _, v := range m.user {
		if !enabled(v.Name()) {
			continue
		}
		v.Setup()
		log.Debug("setup plugin: ", v.Name())
	}

	for _, v := range m.system {
		if !enabled(v.Name()) {
			continue
		}
		if err := v.Start(); err != nil {
			panic(err)
		}
		log.Info("started module: ", v.Name())
	}
	for _, v := range m.user {
		if !enabled(v.Name()) {
			continue
		}
		if err := v.Start(); err != nil {
			panic(err)
		}
		log.Info("started plugin: ", v.Name())
	}
	log.Info("all modules are started")
}

// Stop shuts modules down in reverse start order.
func Stop() {
	for i := len(m.user) - 1; i >= 0; i-- {
		v := m.user[i]
		if !enabled(v.Name()) {
			continue
		}
		if err := v.Stop(); err != nil {
			log.Error(err)
		}
	}
	for i := len(m.system) - 1; i >= 0; i-- {
		v := m.system[i]
		if !enabled(v.Name()) {
			continue
		}
		if err := v.Stop(); err != nil {
			log.Error(err)
		}
	}
	log.Info("all modules are stopped")
}
