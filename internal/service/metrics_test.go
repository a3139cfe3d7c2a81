package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/convo-eval/internal/domain/model"
)

func conv(agentID string) model.Conversation {
	return model.Conversation{
		ProjectID: "proj-1",
		AgentID:   agentID,
		SessionID: "session-" + agentID,
	}
}

func metric(name string, agents ...string) model.Metric {
	return model.Metric{
		Name:             name,
		Prompt:           "prompt",
		Type:             model.MetricTypeString,
		ApplicableAgents: agents,
	}
}

func TestApplicableMetrics_WildcardAlwaysApplies(t *testing.T) {
	got := ApplicableMetrics(
		[]model.Conversation{conv("support-agent")},
		[]model.Metric{metric("toxicity_score", model.AgentWildcard)},
	)

	require.Len(t, got, 1)
	assert.Equal(t, "toxicity_score", got[0].Name)
}

func TestApplicableMetrics_AgentMatch(t *testing.T) {
	metrics := []model.Metric{
		metric("compliance_status", "billing-agent"),
		metric("escalation_necessity", "support-agent"),
	}

	got := ApplicableMetrics([]model.Conversation{conv("billing-agent")}, metrics)

	require.Len(t, got, 1)
	assert.Equal(t, "compliance_status", got[0].Name)
}

func TestApplicableMetrics_MatchIsJobWide(t *testing.T) {
	// A metric allowed for only one agent in the batch is still selected for
	// the whole batch. Every conversation, including the billing-agent one,
	// gets evaluated against it.
	metrics := []model.Metric{metric("escalation_necessity", "support-agent")}
	conversations := []model.Conversation{conv("support-agent"), conv("billing-agent")}

	got := ApplicableMetrics(conversations, metrics)

	require.Len(t, got, 1)
	assert.Equal(t, "escalation_necessity", got[0].Name)
}

func TestApplicableMetrics_NoMatch(t *testing.T) {
	got := ApplicableMetrics(
		[]model.Conversation{conv("support-agent")},
		[]model.Metric{metric("compliance_status", "billing-agent")},
	)

	assert.Empty(t, got)
}

func TestApplicableMetrics_EmptyInputs(t *testing.T) {
	// A wildcard metric applies even to an empty batch; the runner simply
	// builds no work items from it.
	assert.Len(t, ApplicableMetrics(nil, []model.Metric{metric("m", model.AgentWildcard)}), 1)
	assert.Empty(t, ApplicableMetrics([]model.Conversation{conv("a")}, nil))
}

func TestApplicableMetrics_EmptyAllowListNeverApplies(t *testing.T) {
	got := ApplicableMetrics(
		[]model.Conversation{conv("support-agent")},
		[]model.Metric{metric("orphan_metric")},
	)

	assert.Empty(t, got)
}
