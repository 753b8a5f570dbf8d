package part

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/medtrack/internal/infrastructure/store/mocks"
)

func newTestService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	return NewService(eventStore), eventStore
}

func registeredEvent(partID string, stock int) PartRegistered {
	return PartRegistered{
		PartID:       partID,
		Name:         "Ventilator filter",
		Price:        decimal.NewFromInt(30),
		Stock:        stock,
		Min:          5,
		Unit:         "pc",
		RegisteredAt: time.Now(),
	}
}

// ============================================
// Register Tests
// ============================================

func TestService_Register_Success(t *testing.T) {
	svc, eventStore := newTestService()

	p, err := svc.Register(context.Background(), PartInput{
		Name:  "ECG electrode pack",
		Price: decimal.NewFromFloat(12.50),
		Stock: 20,
		Min:   10,
		Unit:  "pack",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 20, p.Stock)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventPartRegistered, eventStore.AppendCalls[0].EventType)
}

func TestService_Register_KeepsExplicitID(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Register(context.Background(), PartInput{
		ID:    "part-custom",
		Name:  "O2 sensor cell",
		Price: decimal.NewFromInt(145),
		Stock: 1,
		Min:   2,
	})

	require.NoError(t, err)
	assert.Equal(t, "part-custom", p.ID)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   PartInput
		wantErr error
	}{
		{"missing name", PartInput{Price: decimal.NewFromInt(1)}, ErrInvalidName},
		{"negative price", PartInput{Name: "x", Price: decimal.NewFromInt(-1)}, ErrNegativePrice},
		{"negative stock", PartInput{Name: "x", Stock: -1}, ErrNegativeStock},
		{"negative min", PartInput{Name: "x", Min: -1}, ErrNegativeMin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ============================================
// Use Tests
// ============================================

func TestService_Use_DecrementsStock(t *testing.T) {
	svc, eventStore := newTestService()
	ctx := context.Background()

	eventStore.AddEvent("p1", AggregateType, EventPartRegistered, registeredEvent("p1", 3))

	require.NoError(t, svc.Use(ctx, "p1", "JOB-2503-001"))

	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventPartUsed, eventStore.AppendCalls[0].EventType)
}

func TestService_Use_ClampsStockAtZero(t *testing.T) {
	svc, eventStore := newTestService()
	ctx := context.Background()

	eventStore.AddEvent("p1", AggregateType, EventPartRegistered, registeredEvent("p1", 1))

	require.NoError(t, svc.Use(ctx, "p1", ""))
	require.NoError(t, svc.Use(ctx, "p1", ""))
	require.NoError(t, svc.Use(ctx, "p1", ""))

	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestService_Use_UnknownPartIsSilentNoOp(t *testing.T) {
	svc, eventStore := newTestService()

	err := svc.Use(context.Background(), "ghost", "")

	require.NoError(t, err)
	// The failed load is recorded but no domain event is appended
	for _, call := range eventStore.AppendCalls {
		assert.NotEqual(t, EventPartUsed, call.EventType)
	}
}

// ============================================
// Restock Tests
// ============================================

func TestService_Restock_AddsStock(t *testing.T) {
	svc, eventStore := newTestService()
	ctx := context.Background()

	eventStore.AddEvent("p1", AggregateType, EventPartRegistered, registeredEvent("p1", 2))

	require.NoError(t, svc.Restock(ctx, "p1", 5))

	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
}

func TestService_Restock_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Restock(ctx, "p1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Restock(ctx, "p1", -3), ErrInvalidQuantity)
}

func TestService_Restock_NotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Restock(context.Background(), "ghost", 5)
	assert.ErrorIs(t, err, ErrPartNotFound)
}

// ============================================
// ReplaceAll Tests
// ============================================

func TestService_ReplaceAll_EmitsPerPartAndSummaryEvents(t *testing.T) {
	svc, eventStore := newTestService()

	err := svc.ReplaceAll(context.Background(), []PartInput{
		{ID: "p1", Name: "Filter", Price: decimal.NewFromInt(30), Stock: 4, Min: 5},
		{ID: "p2", Name: "Battery", Price: decimal.NewFromInt(85), Stock: 2, Min: 3},
	})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 3)
	assert.Equal(t, EventPartReplaced, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, EventPartReplaced, eventStore.AppendCalls[1].EventType)
	assert.Equal(t, EventInventoryReplaced, eventStore.AppendCalls[2].EventType)
	assert.Equal(t, InventoryAggregateID, eventStore.AppendCalls[2].AggregateID)
}

func TestService_ReplaceAll_GeneratesMissingIDs(t *testing.T) {
	svc, eventStore := newTestService()

	err := svc.ReplaceAll(context.Background(), []PartInput{
		{Name: "Filter", Price: decimal.NewFromInt(30)},
	})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 2)
	assert.NotEmpty(t, eventStore.AppendCalls[0].AggregateID)
}

func TestService_ReplaceAll_ValidatesBeforeEmitting(t *testing.T) {
	svc, eventStore := newTestService()

	err := svc.ReplaceAll(context.Background(), []PartInput{
		{ID: "p1", Name: "Filter", Price: decimal.NewFromInt(30)},
		{ID: "p2", Name: "", Price: decimal.NewFromInt(1)},
	})

	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, eventStore.AppendCalls)
}
