package risk

type Severity string

const (
	SeveritySafe     Severity = "safe"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityForScore maps a 0-100 risk score onto its severity band.
// Thresholds are fixed: <30 safe, 30-49 low, 50-69 medium, 70-89 high, >=90 critical.
func SeverityForScore(score int) Severity {
	switch {
	case score >= 90:
		return SeverityCritical
	case score >= 70:
		return SeverityHigh
	case score >= 50:
		return SeverityMedium
	case score >= 30:
		return SeverityLow
	default:
		return SeveritySafe
	}
}
