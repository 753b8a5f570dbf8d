package part

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		stock, min   int
		wantStatus   StockStatus
		wantSeverity Severity
	}{
		{"zero stock is critical", 0, 5, StatusOutOfStock, SeverityCritical},
		{"zero stock with zero min is still critical", 0, 0, StatusOutOfStock, SeverityCritical},
		{"below threshold is low", 3, 5, StatusLowStock, SeverityWarning},
		{"one below threshold is low", 4, 5, StatusLowStock, SeverityWarning},
		{"at threshold is adequate", 5, 5, StatusAdequate, SeverityInfo},
		{"just under double threshold is adequate", 9, 5, StatusAdequate, SeverityInfo},
		{"at double threshold is overstocked", 10, 5, StatusOverstocked, SeverityInfo},
		{"far above threshold is overstocked", 100, 5, StatusOverstocked, SeverityInfo},
		{"positive stock with zero min is overstocked", 1, 0, StatusOverstocked, SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.stock, tt.min)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantSeverity, got.Severity)
		})
	}
}

func TestSeverityRank_Ordering(t *testing.T) {
	assert.Less(t, SeverityRank(SeverityCritical), SeverityRank(SeverityWarning))
	assert.Less(t, SeverityRank(SeverityWarning), SeverityRank(SeverityInfo))
	assert.Equal(t, SeverityRank(SeverityInfo), SeverityRank(Severity("unknown")))
}
