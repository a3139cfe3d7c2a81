package llm

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/target/convo-eval/internal/core"
)

// MockScorer returns canned per-metric responses. It stands in for the real
// gateway in development and when no API key is configured, so the full
// fan-out, buffering, and persistence path stays exercisable offline.
type MockScorer struct{}

// Evaluate returns a plausible response for known metric names and a fixed
// marker otherwise.
func (MockScorer) Evaluate(_ context.Context, req core.ScoreRequest) (string, error) {
	switch req.Metric {
	case "toxicity_score":
		return fmt.Sprintf("%d", rand.IntN(4)), nil
	case "professionalism_score", "conversation_flow_quality":
		return fmt.Sprintf("%d", 6+rand.IntN(4)), nil
	case "customer_satisfaction_prediction":
		return fmt.Sprintf("%d", 6+rand.IntN(4)), nil
	case "compliance_status":
		return pick("COMPLIANT", "COMPLIANT", "COMPLIANT", "NEEDS_REVIEW"), nil
	case "data_privacy_check":
		return pick("SAFE", "SAFE", "SAFE", "POTENTIAL_RISK"), nil
	case "hallucination_detection":
		return pick("ACCURATE", "ACCURATE", "ACCURATE", "POTENTIAL_HALLUCINATION"), nil
	case "escalation_necessity":
		return pick("APPROPRIATE_ESCALATION", "UNNECESSARY_ESCALATION", "SHOULD_HAVE_ESCALATED"), nil
	default:
		return "MOCK_RESPONSE", nil
	}
}

func pick(options ...string) string {
	return options[rand.IntN(len(options))]
}
