package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/executor"
	"github.com/agentdesk/agent-scheduler/internal/models"
	"github.com/agentdesk/agent-scheduler/internal/scheduler"
)

func testServer(t *testing.T) (*httptest.Server, *scheduler.Scheduler) {
	t.Helper()

	registry := executor.NewRegistry()
	registry.RegisterFunc("research", func(ctx context.Context, task *models.Task) (interface{}, error) {
		return "findings", nil
	})

	sched := scheduler.New([]models.WorkerSpec{
		{ID: "agent-1", Capabilities: []string{"research"}, MaxConcurrentTasks: 2},
	}, registry, scheduler.Options{
		MaxGlobalConcurrency:       5,
		EnableLoadBalancing:        true,
		EnableTaskPrioritization:   true,
		EnableDependencyResolution: true,
	})
	t.Cleanup(sched.Close)

	router := mux.NewRouter()
	NewTaskHandler(sched, zap.NewNop()).Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, sched
}

func postTask(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/v1/tasks", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestCreateTask(t *testing.T) {
	server, _ := testServer(t)

	resp := postTask(t, server, `{"type":"research","priority":"high","payload":{"topic":"golang"}}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "research", task.Type)
}

func TestCreateTaskRejectsBadDraft(t *testing.T) {
	server, _ := testServer(t)

	resp := postTask(t, server, `{"priority":"high"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postTask(t, server, `{"type":"research","priority":"sky-high"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postTask(t, server, `not-json`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTask(t *testing.T) {
	server, sched := testServer(t)

	id, err := sched.Submit(models.TaskDraft{Type: "research"})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/v1/tasks/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var task models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	assert.Equal(t, id, task.ID)

	resp, err = http.Get(server.URL + "/api/v1/tasks/unknown-id")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTasks(t *testing.T) {
	server, sched := testServer(t)

	_, err := sched.Submit(models.TaskDraft{Type: "research"})
	require.NoError(t, err)
	_, err = sched.Submit(models.TaskDraft{Type: "research"})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/v1/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Tasks, 2)
}

func TestCancelTask(t *testing.T) {
	server, sched := testServer(t)

	// A task with an unmet dependency stays pending, so it is cancellable.
	id, err := sched.Submit(models.TaskDraft{Type: "research", Dependencies: []string{"never"}})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/tasks/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["cancelled"])

	// Cancelling again conflicts.
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestSystemStatusAndWorkloads(t *testing.T) {
	server, sched := testServer(t)

	id, err := sched.Submit(models.TaskDraft{Type: "research"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		task, ok := sched.GetTask(id)
		return ok && task.Status == models.TaskStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Get(server.URL + "/api/v1/system/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status scheduler.SystemStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, 1, status.TotalTasks)
	assert.Equal(t, 0, status.RunningTasks)
	assert.Equal(t, 1, status.WorkerCount)

	resp, err = http.Get(server.URL + "/api/v1/workers/workloads")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var workloads struct {
		Workloads []models.WorkerWorkload `json:"workloads"`
		Count     int                     `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workloads))
	require.Equal(t, 1, workloads.Count)
	assert.Equal(t, "agent-1", workloads.Workloads[0].WorkerID)
	assert.Empty(t, workloads.Workloads[0].CurrentTasks)
}
