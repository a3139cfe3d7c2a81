package service

import "github.com/target/convo-eval/internal/domain/model"

// ApplicableMetrics selects the metrics that apply to a batch of
// conversations. A metric applies when its agent allow-list contains the
// "all" wildcard or at least one agent present in the conversation set.
//
// The match is job-wide, not per-conversation: a metric matched by any agent
// in the set is applied to every conversation in the batch, including
// conversations whose own agent is not on the metric's allow-list. Pending
// product clarification this matches the behavior downstream reporting
// depends on; do not tighten it to per-conversation matching.
func ApplicableMetrics(conversations []model.Conversation, metrics []model.Metric) []model.Metric {
	agents := make(map[string]struct{}, len(conversations))
	for _, c := range conversations {
		agents[c.AgentID] = struct{}{}
	}

	var applicable []model.Metric
	for _, m := range metrics {
		if metricApplies(m, agents) {
			applicable = append(applicable, m)
		}
	}
	return applicable
}

func metricApplies(m model.Metric, agents map[string]struct{}) bool {
	for _, a := range m.ApplicableAgents {
		if a == model.AgentWildcard {
			return true
		}
		if _, ok := agents[a]; ok {
			return true
		}
	}
	return false
}
