package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/agent-scheduler/internal/models"
)

// Simulated agent executors. They stand in for real agent backends during
// development and in the demo binary; each sleeps for a short while and
// fabricates a result the way the hosted agents would report one.

type ResearchAgent struct{}

func (a *ResearchAgent) Execute(ctx context.Context, task *models.Task) (interface{}, error) {
	topic, _ := task.Payload["topic"].(string)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(300 * time.Millisecond):
	}

	return map[string]interface{}{
		"topic":   topic,
		"summary": fmt.Sprintf("research notes on %s", topic),
	}, nil
}

type CodeReviewAgent struct{}

func (a *CodeReviewAgent) Execute(ctx context.Context, task *models.Task) (interface{}, error) {
	target, _ := task.Payload["target"].(string)
	if target == "" {
		return nil, fmt.Errorf("code_review task %s has no target", task.ID)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}

	return map[string]interface{}{
		"target":   target,
		"findings": []string{},
		"approved": true,
	}, nil
}

type DataAnalysisAgent struct{}

func (a *DataAnalysisAgent) Execute(ctx context.Context, task *models.Task) (interface{}, error) {
	dataset, _ := task.Payload["dataset"].(string)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return map[string]interface{}{
		"dataset": dataset,
		"rows":    0,
		"status":  "analysis complete",
	}, nil
}

type SummaryReportAgent struct{}

func (a *SummaryReportAgent) Execute(ctx context.Context, task *models.Task) (interface{}, error) {
	day, _ := task.Payload["report_date"].(string)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}

	return fmt.Sprintf("activity summary for %s", day), nil
}

// RegisterSimulatedAgents wires the demo executors into a registry.
func RegisterSimulatedAgents(r *Registry) {
	r.Register("research", &ResearchAgent{})
	r.Register("code_review", &CodeReviewAgent{})
	r.Register("data_analysis", &DataAnalysisAgent{})
	r.Register("summary_report", &SummaryReportAgent{})
}
