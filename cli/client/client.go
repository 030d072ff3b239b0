// Package client is a thin HTTP client for the agent scheduler API, used by
// the agentctl command.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentdesk/agent-scheduler/internal/models"
	"github.com/agentdesk/agent-scheduler/internal/scheduler"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
}

type CreateTaskRequest struct {
	Type              string                 `json:"type"`
	Description       string                 `json:"description,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	Priority          models.TaskPriority    `json:"priority,omitempty"`
	Dependencies      []string               `json:"dependencies,omitempty"`
	EstimatedDuration time.Duration          `json:"estimated_duration,omitempty"`
}

func (c *Client) CreateTask(req CreateTaskRequest) (*models.Task, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/api/v1/tasks", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create task failed with status: %s", resp.Status)
	}

	var task models.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTask(taskID string) (*models.Task, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/tasks/" + taskID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get task failed with status: %s", resp.Status)
	}

	var task models.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ListTasks() ([]models.Task, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/tasks")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list tasks failed with status: %s", resp.Status)
	}

	var body struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Tasks, nil
}

// CancelTask returns whether the scheduler actually cancelled the task; a
// running or finished task reports false.
func (c *Client) CancelTask(taskID string) (bool, error) {
	req, err := http.NewRequest(http.MethodDelete, c.BaseURL+"/api/v1/tasks/"+taskID, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return false, fmt.Errorf("cancel task failed with status: %s", resp.Status)
	}

	var body struct {
		Cancelled bool `json:"cancelled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Cancelled, nil
}

func (c *Client) GetSystemStatus() (*scheduler.SystemStatus, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/system/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get system status failed with status: %s", resp.Status)
	}

	var status scheduler.SystemStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
