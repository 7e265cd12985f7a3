package cluster

// Profile names assigned to cluster centroids.
const (
	LabelConsistentHigh = "Consistent High Performer"
	LabelVolatileHigh   = "Volatile High Performer"
	LabelRecovering     = "Recovering / Improving"
	LabelAtRisk         = "At Risk"
	LabelFastImprover   = "Fast Improver"
	LabelDeclining      = "Declining Performance"
	LabelInconsistent   = "Inconsistent Performer"
	LabelSteadyAverage  = "Steady Average"
)

// labelRule pairs a centroid predicate with a profile name.
type labelRule struct {
	label   string
	matches func(avg, std, slope float64) bool
}

// profileRules is the ordered decision table for naming a cluster from
// its un-standardized centroid. Rules are evaluated top to bottom and
// the first match wins; the final rule always matches.
var profileRules = []labelRule{
	{LabelConsistentHigh, func(avg, std, _ float64) bool { return avg > 75 && std < 10 }},
	{LabelVolatileHigh, func(avg, _, _ float64) bool { return avg > 75 }},
	{LabelRecovering, func(avg, _, slope float64) bool { return avg < 50 && slope > 0 }},
	{LabelAtRisk, func(avg, _, _ float64) bool { return avg < 50 }},
	{LabelFastImprover, func(_, _, slope float64) bool { return slope > 2 }},
	{LabelDeclining, func(_, _, slope float64) bool { return slope < -2 }},
	{LabelInconsistent, func(_, std, _ float64) bool { return std > 15 }},
	{LabelSteadyAverage, func(_, _, _ float64) bool { return true }},
}

// ProfileLabel names a cluster from its centroid's average, deviation
// and slope in original feature units.
func ProfileLabel(avg, std, slope float64) string {
	for _, rule := range profileRules {
		if rule.matches(avg, std, slope) {
			return rule.label
		}
	}
	return LabelSteadyAverage // unreachable: the last rule always matches
}
