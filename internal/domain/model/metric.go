package model

import (
	"errors"
	"fmt"
)

// MetricType declares how a metric's scoring output should be persisted.
type MetricType string

const (
	// MetricTypeNumeric stores the scoring output as a float when it parses as one.
	MetricTypeNumeric MetricType = "numeric"
	// MetricTypeString stores the raw scoring output text.
	MetricTypeString MetricType = "string"
)

// Valid returns true if the MetricType is valid.
func (t MetricType) Valid() bool {
	return t == MetricTypeNumeric || t == MetricTypeString
}

// AgentWildcard marks a metric as applicable to every agent.
const AgentWildcard = "all"

// Metric is one configured quality metric, loaded once at process start.
type Metric struct {
	Name             string     `json:"name"`
	Prompt           string     `json:"prompt"`
	Type             MetricType `json:"type"`
	ApplicableAgents []string   `json:"applicable_agents"`
}

// Validate validates a metric definition from configuration.
func (m *Metric) Validate() error {
	if m.Name == "" {
		return errors.New("metric name is required")
	}
	if m.Prompt == "" {
		return fmt.Errorf("metric %q: prompt is required", m.Name)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("metric %q: invalid type %q", m.Name, m.Type)
	}
	return nil
}
