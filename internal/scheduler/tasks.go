// Package scheduler provides the asynq background job queue used for
// best-effort notification delivery.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskMatterNotification = "matters.notification"

// MatterNotificationPayload carries everything the worker needs so it can
// render a notification without re-reading the matter row.
type MatterNotificationPayload struct {
	EventType      string `json:"eventType"` // new_lead or lead_accepted
	MatterID       string `json:"matterId"`
	OrganizationID string `json:"organizationId"`
	MatterNumber   string `json:"matterNumber"`
	ClientName     string `json:"clientName"`
}

const (
	NotificationNewLead      = "new_lead"
	NotificationLeadAccepted = "lead_accepted"
)

func NewMatterNotificationTask(payload MatterNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMatterNotification, data), nil
}

func ParseMatterNotificationPayload(task *asynq.Task) (MatterNotificationPayload, error) {
	var payload MatterNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MatterNotificationPayload{}, err
	}
	return payload, nil
}
