/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import (
	"sync"

	"github.com/rs/xid"
)

var lock sync.Mutex

// GetUUID returns a globally unique, sortable identifier.
func GetUUID() string {
	lock.Lock()
	defer lock.Unlock()
	return xid.New().String()
}
