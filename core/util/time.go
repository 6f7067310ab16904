/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import "time"

func GetDurationOrDefault(str string, defaultV time.Duration) time.Duration {
	t, err := time.ParseDuration(str)
	if err != nil {
		return defaultV
	}
	return t
}
