/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package provider

import (
	"context"
	"sync"

	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// Provider resolves a dataset's stored query against a datasource connection
// and returns raw rows.
type Provider interface {
	Fetch(ctx context.Context, datasource *insight.Datasource, dataset *insight.Dataset) ([]util.MapStr, error)

	// Test checks connectivity without fetching data.
	Test(ctx context.Context, datasource *insight.Datasource) error
}

var (
	providers = map[string]Provider{}
	l         sync.RWMutex
)

func Register(name string, p Provider) {
	l.Lock()
	defer l.Unlock()
	if _, ok := providers[name]; ok {
		panic(errors.Errorf("provider [%v] already registered", name))
	}
	providers[name] = p
}

func Get(name string) (Provider, error) {
	l.RLock()
	defer l.RUnlock()
	p, ok := providers[name]
	if !ok {
		return nil, errors.Errorf("unknown datasource type [%v]", name)
	}
	return p, nil
}

func init() {
	Register("inline", &InlineProvider{})
	Register("http", &HTTPProvider{})
}
