package part

// StockStatus classifies a part's stock level relative to its reorder threshold
type StockStatus string

const (
	StatusOutOfStock  StockStatus = "out_of_stock"
	StatusLowStock    StockStatus = "low_stock"
	StatusAdequate    StockStatus = "adequate"
	StatusOverstocked StockStatus = "overstocked"
)

// Severity orders alerts for display: critical first, info last
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert is derived from a part's stock level, never stored
type Alert struct {
	Status   StockStatus
	Severity Severity
}

// Classify maps a stock level to its alert classification. It is a pure
// function of (stock, min): out of stock is always critical regardless of
// the threshold, and stock at or above twice the threshold is overstocked.
func Classify(stock, min int) Alert {
	switch {
	case stock == 0:
		return Alert{Status: StatusOutOfStock, Severity: SeverityCritical}
	case stock < min:
		return Alert{Status: StatusLowStock, Severity: SeverityWarning}
	case stock < 2*min:
		return Alert{Status: StatusAdequate, Severity: SeverityInfo}
	default:
		return Alert{Status: StatusOverstocked, Severity: SeverityInfo}
	}
}

// SeverityRank returns the sort rank of a severity; lower sorts first
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}
