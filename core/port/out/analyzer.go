package out

import (
	"context"
	"time"
)

// AnalyzerPort is the outbound port for the language model. The reply is
// free text that the verdict interpreter turns into a structured verdict;
// now and timezone anchor the model's reading of relative dates.
type AnalyzerPort interface {
	Analyze(ctx context.Context, body string, now time.Time, timezone string) (string, error)
}
