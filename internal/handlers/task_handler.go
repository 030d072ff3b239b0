package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/models"
	"github.com/agentdesk/agent-scheduler/internal/scheduler"
)

// TaskHandler exposes the scheduler over HTTP.
type TaskHandler struct {
	sched *scheduler.Scheduler
	log   *zap.Logger
}

func NewTaskHandler(sched *scheduler.Scheduler, log *zap.Logger) *TaskHandler {
	return &TaskHandler{sched: sched, log: log}
}

// Register mounts the task routes on an /api/v1 subrouter.
func (h *TaskHandler) Register(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	api.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}", h.CancelTask).Methods("DELETE")
	api.HandleFunc("/workers/workloads", h.GetWorkloads).Methods("GET")
	api.HandleFunc("/system/status", h.GetSystemStatus).Methods("GET")
}

type CreateTaskRequest struct {
	Type              string                 `json:"type"`
	Description       string                 `json:"description,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	Priority          models.TaskPriority    `json:"priority,omitempty"`
	Dependencies      []string               `json:"dependencies,omitempty"`
	EstimatedDuration time.Duration          `json:"estimated_duration,omitempty"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	taskID, err := h.sched.Submit(models.TaskDraft{
		Type:              req.Type,
		Description:       req.Description,
		Payload:           req.Payload,
		Priority:          req.Priority,
		Dependencies:      req.Dependencies,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		if errors.Is(err, models.ErrMissingType) ||
			errors.Is(err, models.ErrInvalidPriority) ||
			errors.Is(err, models.ErrNegativeDuration) ||
			errors.Is(err, models.ErrEmptyDependencyID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("Task submission failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	task, _ := h.sched.GetTask(taskID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	task, exists := h.sched.GetTask(vars["id"])
	if !exists {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.sched.ListTasks()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	taskID := vars["id"]

	cancelled := h.sched.Cancel(taskID)

	w.Header().Set("Content-Type", "application/json")
	if !cancelled {
		w.WriteHeader(http.StatusConflict)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"task_id":   taskID,
		"cancelled": cancelled,
	})
}

func (h *TaskHandler) GetWorkloads(w http.ResponseWriter, r *http.Request) {
	workloads := h.sched.ListWorkerWorkloads()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"workloads": workloads,
		"count":     len(workloads),
	})
}

func (h *TaskHandler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.sched.Status())
}
