package extraction

import (
	"context"
	"fmt"
	"time"

	"inboxcal/core/domain"
	"inboxcal/core/port/out"
	"inboxcal/pkg/logger"
)

// Pipeline consumes raw email text and produces either a fully validated,
// timezone-correct meeting record or a skip decision.
type Pipeline struct {
	analyzer  out.AnalyzerPort
	validator *Validator
	zone      string
	now       func() time.Time
	log       *logger.Logger
}

// NewPipeline creates the extraction pipeline for a reference timezone.
// now overrides the clock for tests; nil means time.Now.
func NewPipeline(analyzer out.AnalyzerPort, zone string, now func() time.Time) (*Pipeline, error) {
	norm, err := NewNormalizer(zone)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		analyzer:  analyzer,
		validator: NewValidator(norm, now),
		zone:      zone,
		now:       now,
		log:       logger.Default(),
	}, nil
}

// Process runs one message through analyze → interpret → validate. A
// *SkipError return means the message is not a schedulable invitation;
// any other error is unexpected. An analyzer transport failure degrades
// to a rejection verdict rather than aborting the batch.
func (p *Pipeline) Process(ctx context.Context, msg *domain.InboundMessage) (*domain.MeetingRecord, error) {
	raw, err := p.analyzer.Analyze(ctx, msg.Body, p.now().In(p.validator.norm.Location()), p.zone)

	var verdict *domain.Verdict
	if err != nil {
		p.log.WithMessageID(msg.ID).WithError(err).Error("Analyzer call failed")
		verdict = &domain.Verdict{Explanation: fmt.Sprintf("analysis failed: %v", err)}
	} else {
		verdict = ParseVerdict(raw)
	}

	return p.validator.Build(verdict, msg)
}
