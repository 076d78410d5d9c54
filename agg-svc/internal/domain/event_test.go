package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEvent_Milestone(t *testing.T) {
	tests := []struct {
		name  string
		event OrderEvent
		want  string
	}{
		{name: "placed", event: OrderEvent{Type: EventOrderPlaced, Status: "pending"}, want: MilestonePlaced},
		{name: "served", event: OrderEvent{Type: EventOrderStatusChanged, Status: "served"}, want: MilestoneServed},
		{name: "cancelled", event: OrderEvent{Type: EventOrderStatusChanged, Status: "cancelled"}, want: MilestoneCancelled},
		{name: "kitchen progress", event: OrderEvent{Type: EventOrderStatusChanged, Status: "preparing"}, want: ""},
		{name: "items edited", event: OrderEvent{Type: EventOrderItemsChanged, Status: "served"}, want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.event.Milestone())
		})
	}
}

func TestOrderEvent_DishCountsMergesLines(t *testing.T) {
	payload := `{"type":"order_status_changed","order_id":"o-1","status":"served","total":"40.95",
		"items":[
			{"dish_id":"app-1","dish_name":"Crispy Spring Rolls","quantity":2,"price":"8.99"},
			{"dish_id":"drink-1","dish_name":"Fresh Lemonade","quantity":2,"price":"4.99"},
			{"dish_id":"app-1","dish_name":"Crispy Spring Rolls","quantity":1,"price":"8.99"}
		]}`

	var event OrderEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	assert.Equal(t, "40.95", event.Total.StringFixed(2))
	assert.Equal(t, []DishCount{
		{DishID: "app-1", Name: "Crispy Spring Rolls", Quantity: 3},
		{DishID: "drink-1", Name: "Fresh Lemonade", Quantity: 2},
	}, event.DishCounts())
}
