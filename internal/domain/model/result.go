package model

import "time"

// EvaluationResult is one persisted row per (agent, session, metric).
// Exactly one of ValueString or ValueNumeric is set, depending on the
// metric's declared type and whether the scoring output parsed as numeric.
type EvaluationResult struct {
	AgentID      string    `json:"agent_id"             db:"agent_id"`
	SessionID    string    `json:"session_id"           db:"session_id"`
	Timestamp    time.Time `json:"timestamp"            db:"timestamp"`
	Metric       string    `json:"metric"               db:"metric"`
	ValueString  *string   `json:"metric_value_string"  db:"metric_value_string"`
	ValueNumeric *float64  `json:"metric_value_numeric" db:"metric_value_numeric"`
}
