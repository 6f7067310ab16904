/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OneOfOne/xxhash"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// CacheKey derives a deterministic key from the semantic inputs of a chart
// request. Object keys are canonicalized before hashing so that two
// requests with identical meaning always land on the same entry, whatever the
// key order of the decoded config maps.
func CacheKey(ownerID string, cfg *insight.QueryConfig, filters []insight.Filter, limit int) string {
	h := xxhash.New64()
	h.WriteString(canonicalString(util.MapStr{
		"config":  cfg,
		"filters": filters,
		"limit":   limit,
	}))
	return fmt.Sprintf("%s:%x", ownerID, h.Sum64())
}

// OwnerPrefix is the key prefix shared by every entry of one owner, the unit
// of invalidation.
func OwnerPrefix(ownerID string) string {
	return ownerID + ":"
}

func canonicalString(v interface{}) string {
	// round-trip through JSON first so struct fields and maps collapse into
	// one representation
	m := util.MapStr{}
	util.MustFromJSONBytes(util.MustToJSONBytes(v), &m)
	var b strings.Builder
	writeCanonical(&b, map[string]interface{}(m))
	return b.String()
}

func writeCanonical(b *strings.Builder, v interface{}) {
	switch x := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%q:", k))
			writeCanonical(b, x[k])
		}
		b.WriteByte('}')
	case util.MapStr:
		writeCanonical(b, map[string]interface{}(x))
	case []interface{}:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	case string:
		b.WriteString(fmt.Sprintf("%q", x))
	case nil:
		b.WriteString("null")
	default:
		b.WriteString(util.ToString(x))
	}
}
