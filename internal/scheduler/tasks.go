package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskPopularityRefresh = "popularity.refresh"

type PopularityRefreshPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewPopularityRefreshTask(payload PopularityRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPopularityRefresh, data), nil
}

func ParsePopularityRefreshPayload(task *asynq.Task) (PopularityRefreshPayload, error) {
	var payload PopularityRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PopularityRefreshPayload{}, err
	}
	return payload, nil
}
