/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppliesTo(t *testing.T) {
	connections := []FilterConnection{
		{FilterID: "f1", ChartIDs: []string{"c1", "c2"}},
		{FilterID: "f2"},
	}

	assert.True(t, AppliesTo(connections, "f1", "c1"))
	assert.False(t, AppliesTo(connections, "f1", "c3"))

	// empty chart list targets every chart
	assert.True(t, AppliesTo(connections, "f2", "c3"))

	// a filter without a connection entry targets every chart
	assert.True(t, AppliesTo(connections, "f9", "c1"))
	assert.True(t, AppliesTo(nil, "f1", "c1"))
}
