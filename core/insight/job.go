/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"time"

	"infini.sh/insight/core/util"
)

type JobType string

const (
	JobTypeRefresh JobType = "refresh"
	JobTypeExport  JobType = "export"
)

const (
	JobStatusInitiated  = "initiated"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job tracks one async refresh/export request. Jobs live in process memory
// and do not survive a restart.
type Job struct {
	ID          string  `json:"id"`
	Type        JobType `json:"type"`
	OwnerID     string  `json:"owner_id"`
	WorkspaceID string  `json:"workspace_id"`

	Status string `json:"status"`

	Created   time.Time  `json:"created"`
	Updated   time.Time  `json:"updated"`
	Completed *time.Time `json:"completed,omitempty"`

	// Result carries the refreshed row count or the export file location
	// once the job completes.
	Result util.MapStr `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
