/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/api"
	"infini.sh/insight/core/env"
	"infini.sh/insight/core/global"
	"infini.sh/insight/core/logger"
	"infini.sh/insight/core/module"
	"infini.sh/insight/core/task"
	"infini.sh/insight/modules/insight"
	"infini.sh/insight/plugins/badger"
	"infini.sh/insight/plugins/memory"
)

var (
	appName = "insight"
	appDesc = "dashboard and chart data service"
	version = "1.0.0_SNAPSHOT"
)

func main() {
	var (
		configFile string
		logLevel   string
		isDebug    bool
	)
	flag.StringVar(&configFile, "config", "insight.yml", "path to the configuration file")
	flag.StringVar(&logLevel, "log", "", "override the configured log level")
	flag.BoolVar(&isDebug, "debug", false, "run in debug mode")
	flag.Parse()

	environment := env.NewEnv(appName, appDesc, version, configFile, isDebug)
	environment.Init()
	global.RegisterEnv(environment)

	if logLevel == "" {
		logLevel = environment.LoggingLevel
	}
	logger.SetLogging(logLevel, appName, environment.GetLogDir())
	defer logger.Flush()

	switch environment.SystemConfig.StorageConfig.Driver {
	case "memory":
		module.RegisterSystemModule(&memory.Module{})
	default:
		module.RegisterSystemModule(&badger.Module{})
	}
	module.RegisterSystemModule(&insight.Module{})

	module.Start()
	api.StartAPI()
	task.RunTasks()

	log.Infof("%v is up, pid: %v", appName, os.Getpid())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	task.StopTasks()
	api.StopAPI()
	module.Stop()
}
