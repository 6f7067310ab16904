/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package logger

import (
	"fmt"
	"path"
	"strings"

	log "github.com/cihub/seelog"
)

const defaultFormat = "[%Date(01-02) %Time] [%LEV] [%File:%Line] %Msg%n"

// SetLogging replaces the global logger with a console plus file setup at
// the given level. An empty logDir disables file output.
func SetLogging(level, appName, logDir string) {
	if level == "" {
		level = "info"
	}
	if appName == "" {
		appName = "app"
	}
	if _, ok := log.LogLevelFromString(strings.ToLower(level)); !ok {
		fmt.Printf("unknown log level [%v], falling back to info\n", level)
		level = "info"
	}

	outputs := `<console />`
	if logDir != "" {
		file := path.Join(logDir, appName+".log")
		outputs += fmt.Sprintf(`<rollingfile type="size" filename="%s" maxsize="104857600" maxrolls="10" />`, file)
	}

	config := fmt.Sprintf(`
<seelog type="asynctimer" asyncinterval="100000" minlevel="%s">
	<outputs formatid="main">%s</outputs>
	<formats>
		<format id="main" format="%s" />
	</formats>
</seelog>`, strings.ToLower(level), outputs, defaultFormat)

	logger, err := log.LoggerFromConfigAsString(config)
	if err != nil {
		fmt.Println("failed to build logger: ", err)
		return
	}
	if err := log.ReplaceLogger(logger); err != nil {
		fmt.Println("failed to replace logger: ", err)
	}
}

// Flush drains buffered log entries, call before exit.
func Flush() {
	log.Flush()
}
