/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package task

import (
	"context"
	"sync"
	"time"

	log "github.com/cihub/seelog"
	"github.com/procyon-projects/chrono"
	"infini.sh/insight/core/util"
)

var Tasks = sync.Map{}

type ScheduleTask struct {
	ID          string `config:"id" json:"id,omitempty"`
	Description string `config:"description" json:"description,omitempty"`
	Type        string `config:"type" json:"type,omitempty"`
	Interval    string `config:"interval" json:"interval,omitempty"`
	Crontab     string `config:"crontab" json:"crontab,omitempty"`

	Task     func(ctx context.Context) `config:"-" json:"-"`
	taskItem chrono.ScheduledTask
}

const Interval = "interval"
const Crontab = "crontab"

func RegisterScheduleTask(task ScheduleTask) {
	if task.ID == "" {
		task.ID = util.GetUUID()
	}

	if task.Type == "" && task.Interval != "" {
		task.Type = Interval
	} else if task.Type == "" && task.Crontab != "" {
		task.Type = Crontab
	}

	_, ok := Tasks.Load(task.ID)
	if ok {
		StopTask(task.ID)
	}

	Tasks.Store(task.ID, &task)

	//start after register
	if started {
		runTask(&task)
	}
}

var taskScheduler = chrono.NewDefaultTaskScheduler()
var defaultInterval = time.Duration(10) * time.Second
var started bool

func RunTasks() {
	started = true
	Tasks.Range(func(key, value any) bool {
		task, ok := value.(*ScheduleTask)
		if ok {
			runTask(task)
		}
		return true
	})
}

func runTask(task *ScheduleTask) {
	switch task.Type {
	case Interval:
		task1, err := taskScheduler.ScheduleAtFixedRate(task.Task, util.GetDurationOrDefault(task.Interval, defaultInterval))
		if err != nil {
			log.Error("failed to schedule interval task:", task.Interval, ",", task.Description)
		}
		task.taskItem = task1
	case Crontab:
		task1, err := taskScheduler.ScheduleWithCron(task.Task, task.Crontab)
		if err != nil {
			log.Error("failed to schedule crontab task:", task.Crontab, ",", task.Description)
		}
		task.taskItem = task1
	default:
		log.Error("unknown task type:", task.Type)
	}
}

func StopTask(id string) {
	task, ok := Tasks.Load(id)
	if ok {
		item, ok := task.(*ScheduleTask)
		if ok && item.taskItem != nil {
			item.taskItem.Cancel()
		}
	}
}

func StopTasks() {
	started = false
	Tasks.Range(func(key, value any) bool {
		task, ok := value.(*ScheduleTask)
		if ok && task.taskItem != nil {
			task.taskItem.Cancel()
		}
		return true
	})
	<-taskScheduler.Shutdown()
}
