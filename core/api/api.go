/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	log "github.com/cihub/seelog"
	httprouter "github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"infini.sh/insight/core/config"
	"infini.sh/insight/core/global"
)

var registeredAPIMethodHandler = map[string]map[string]httprouter.Handle{}

var apiOptions = NewOptionRegistry()

var l sync.Mutex

var defaultHandler = Handler{}

// HandleAPIMethod registers a route, options decide auth handling at server
// build time.
func HandleAPIMethod(method Method, pattern string, handler httprouter.Handle, options ...Option) {
	l.Lock()
	defer l.Unlock()

	m := string(method)
	if registeredAPIMethodHandler[m] == nil {
		registeredAPIMethodHandler[m] = map[string]httprouter.Handle{}
	}
	registeredAPIMethodHandler[m][pattern] = handler

	if len(options) > 0 {
		opts := &HandlerOptions{}
		for _, o := range options {
			o(opts)
		}
		apiOptions.Register(method, pattern, opts)
	}
}

var server *http.Server

// StartAPI builds the router from registered handlers and serves it.
func StartAPI() {
	cfg := global.Env().SystemConfig.APIConfig
	if !cfg.Enabled {
		return
	}

	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			panic("api.jwt_secret is required when auth is enabled")
		}
		EnableAuth(cfg.JWTSecret)
	}

	router := buildRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(corsOptions.AllowedOrigins) == 0 {
		corsOptions.AllowedOrigins = []string{"*"}
	}

	server = &http.Server{
		Addr:              cfg.Binding,
		Handler:           cors.New(corsOptions).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("api server listening on: %v", cfg.Binding)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err)
		}
	}()
}

// StopAPI drains in-flight requests before shutdown.
func StopAPI() {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err)
	}
}

func buildRouter() *httprouter.Router {
	router := httprouter.New()
	router.PanicHandler = recoveryHandler

	l.Lock()
	defer l.Unlock()
	for method, routes := range registeredAPIMethodHandler {
		for pattern, handle := range routes {
			wrapped := handle
			if opts, ok := apiOptions.Get(Method(method), pattern); ok {
				if opts.Permission != "" {
					wrapped = defaultHandler.RequirePermission(wrapped, opts.Permission)
				} else if opts.RequireLogin {
					wrapped = defaultHandler.RequireLogin(wrapped)
				}
			}
			router.Handle(method, pattern, wrapped)
		}
	}
	return router
}

// HandlerOptions holds per-route settings collected at registration.
type HandlerOptions struct {
	RequireLogin bool
	Permission   string
}

type Option func(*HandlerOptions)

func RequireLogin() Option {
	return func(o *HandlerOptions) {
		o.RequireLogin = true
	}
}

func Permission(permission string) Option {
	return func(o *HandlerOptions) {
		o.Permission = permission
		o.RequireLogin = true
	}
}

// OptionRegistry stores options for each method and route
type OptionRegistry struct {
	options map[string]*HandlerOptions
}

func NewOptionRegistry() *OptionRegistry {
	return &OptionRegistry{options: map[string]*HandlerOptions{}}
}

func (o *OptionRegistry) GetKey(method Method, pattern string) string {
	return string(method) + pattern
}

func (o *OptionRegistry) Register(method Method, pattern string, options *HandlerOptions) {
	o.options[o.GetKey(method, pattern)] = options
}

func (o *OptionRegistry) Get(method Method, pattern string) (*HandlerOptions, bool) {
	options, ok := o.options[o.GetKey(method, pattern)]
	return options, ok
}

// GetModuleConfig exposes registered module level api settings, reserved for
// future options.
func GetModuleConfig(name string) *config.Config {
	return global.Env().GetModuleConfig(name)
}
