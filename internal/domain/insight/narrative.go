package insight

import (
	"fmt"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// Explain renders an insight as a human-readable sentence using the
// template for its type. An insight whose type has no template falls
// back to a generic string embedding the raw description and payload. A
// payload that does not match the type's expected shape yields a
// diagnostic string naming the missing data; this is a recoverable,
// user-visible condition, never an error return.
func Explain(in model.Insight) string {
	switch in.Type {
	case model.InsightImprovement:
		p, ok := in.Payload.(model.DeltaPayload)
		if !ok {
			return missingField(in, "delta")
		}
		return fmt.Sprintf(
			"Student %s improved their average score by %.1f points in %s (from %.1f to %.1f).",
			in.EntityID, p.Delta, p.TimeLabel, p.PrevScore, p.AverageScore,
		)
	case model.InsightDecline:
		p, ok := in.Payload.(model.DeltaPayload)
		if !ok {
			return missingField(in, "delta")
		}
		return fmt.Sprintf(
			"Student %s saw a decline of %.1f points in %s (from %.1f to %.1f).",
			in.EntityID, p.Delta, p.TimeLabel, p.PrevScore, p.AverageScore,
		)
	case model.InsightCorrelation:
		p, ok := in.Payload.(model.CorrelationPayload)
		if !ok {
			return missingField(in, "correlation")
		}
		return fmt.Sprintf(
			"There is a strong connection between %s and %s (correlation: %.2f). "+
				"Students performing well in one tend to do well in the other.",
			p.SubjectA, p.SubjectB, p.Correlation,
		)
	default:
		return fmt.Sprintf("Insight: %s (Data: %+v)", in.Description, in.Payload)
	}
}

// missingField formats the diagnostic for an insight whose payload does
// not carry the fields its template references.
func missingField(in model.Insight, field string) string {
	return fmt.Sprintf("Error formatting insight: missing key %q", field)
}
