package data

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/target/convo-eval/internal/domain/model"
)

// FileMetricsLoader reads metric definitions from a JSON file once at
// startup. It implements core.MetricsLoader: any load failure yields an
// empty metric list so the process starts with no applicable evaluations
// rather than crashing.
type FileMetricsLoader struct {
	Path   string
	Logger *slog.Logger
}

// Load reads and validates the configured metric definitions. Invalid
// entries are skipped with a warning; unreadable or malformed files yield an
// empty list.
func (l *FileMetricsLoader) Load() []model.Metric {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Error("read metrics config", "path", l.Path, "error", err)
		}
		return nil
	}

	var defs []model.Metric
	if err := json.Unmarshal(raw, &defs); err != nil {
		if l.Logger != nil {
			l.Logger.Error("decode metrics config", "path", l.Path, "error", err)
		}
		return nil
	}

	metrics := make([]model.Metric, 0, len(defs))
	for _, m := range defs {
		if err := m.Validate(); err != nil {
			if l.Logger != nil {
				l.Logger.Warn("skipping invalid metric definition", "error", err)
			}
			continue
		}
		metrics = append(metrics, m)
	}

	if l.Logger != nil {
		l.Logger.Info("metrics config loaded", "path", l.Path, "metrics", len(metrics))
	}
	return metrics
}
