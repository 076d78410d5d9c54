package tests

import (
	"context"
	"errors"
	"testing"

	"tableside/order-svc/internal/domain"
	"tableside/order-svc/internal/mocks"
	"tableside/order-svc/internal/service"
	"tableside/order-svc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCartService_BuildsAView(t *testing.T) {
	ctx := context.Background()
	r := newRestaurant(t, nil, nil, nil)

	for _, id := range []string{"app-1", "drink-2", "app-1"} {
		_, err := r.carts.AddItem(ctx, "t5", id)
		require.NoError(t, err)
	}
	view, err := r.carts.SetNote(ctx, "t5", "drink-2", "  extra cold ")
	require.NoError(t, err)

	assert.Equal(t, "t5", view.Session)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, "23.97", view.Total.StringFixed(2))
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "app-1", view.Lines[0].DishID)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "17.98", view.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "extra cold", view.Lines[1].Note)

	view, err = r.carts.RemoveItem(ctx, "t5", "app-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)

	_, err = r.carts.SetNote(ctx, "t5", "main-1", "rare")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, r.carts.Reset(ctx, "t5"))
	view, err = r.carts.Get(ctx, "t5")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestCartService_TotalFollowsCatalog(t *testing.T) {
	ctx := context.Background()
	r := newRestaurant(t, nil, nil, nil)

	_, err := r.carts.AddItem(ctx, "t1", "dessert-1")
	require.NoError(t, err)

	dish, err := r.catalog.GetDish(ctx, "dessert-1")
	require.NoError(t, err)
	dish.Price = dish.Price.Add(dish.Price)
	_, err = r.catalog.UpsertDish(ctx, dish)
	require.NoError(t, err)

	view, err := r.carts.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "17.98", view.Total.StringFixed(2))
}

func TestCartService_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		dishes  []string
		table   int
		prepare func(ctx context.Context, r *restaurant)
		wantErr error
	}{
		{name: "empty cart", table: 3, wantErr: domain.ErrEmptyCart},
		{name: "no table", dishes: []string{"app-1"}, table: 0, wantErr: domain.ErrValidation},
		{
			name:   "dish became unavailable",
			dishes: []string{"app-1", "main-3"},
			table:  3,
			prepare: func(ctx context.Context, r *restaurant) {
				require.NoError(t, r.catalog.SetAvailability(ctx, "main-3", false))
			},
			wantErr: domain.ErrUnavailableDish,
		},
		{
			name:   "dish removed from menu",
			dishes: []string{"side-2"},
			table:  3,
			prepare: func(ctx context.Context, r *restaurant) {
				require.NoError(t, r.catalog.RemoveDish(ctx, "side-2"))
			},
			wantErr: domain.ErrUnavailableDish,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			r := newRestaurant(t, nil, nil, nil)
			for _, id := range testCase.dishes {
				_, err := r.carts.AddItem(ctx, "s", id)
				require.NoError(t, err)
			}
			if testCase.prepare != nil {
				testCase.prepare(ctx, r)
			}

			_, err := r.carts.Finalize(ctx, "s", testCase.table, "")
			assert.ErrorIs(t, err, testCase.wantErr)

			view, err := r.carts.Get(ctx, "s")
			require.NoError(t, err)
			assert.Len(t, view.Lines, len(testCase.dishes), "cart is kept on failure")

			pending, err := r.orders.ListByStatus(ctx, domain.OrderPending)
			require.NoError(t, err)
			assert.Empty(t, pending)
		})
	}
}

func TestCartService_FinalizeSnapshotsDishes(t *testing.T) {
	ctx := context.Background()
	r := newRestaurant(t, nil, nil, nil)

	_, err := r.carts.AddItem(ctx, "s", "main-1")
	require.NoError(t, err)
	_, err = r.carts.SetNote(ctx, "s", "main-1", "no butter")
	require.NoError(t, err)

	order, err := r.carts.Finalize(ctx, "s", 9, "  Lee ")
	require.NoError(t, err)
	assert.Equal(t, "Lee", order.CustomerName)
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Grilled Salmon", item.Dish.Name)
	assert.Equal(t, "no butter", item.Note)
	assert.Equal(t, domain.ItemPending, item.Status)

	view, err := r.carts.Get(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_FinalizeKeepsCartWhenPlacementFails(t *testing.T) {
	ctx := context.Background()
	catalog := storage.NewMemoryCatalog()
	require.NoError(t, service.NewCatalogService(catalog, zap.NewNop()).Seed(ctx))

	placer := mocks.NewOrderServiceInterface(t)
	placer.On("PlaceOrder", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.TableNumber == 2 && len(o.Items) == 1 && o.Items[0].Quantity == 2
	})).Return(nil, errors.New("database unavailable")).Once()

	carts := service.NewCartService(storage.NewMemoryCarts(), catalog, placer, zap.NewNop())
	for i := 0; i < 2; i++ {
		_, err := carts.AddItem(ctx, "s", "side-3")
		require.NoError(t, err)
	}

	_, err := carts.Finalize(ctx, "s", 2, "")
	require.Error(t, err)

	view, err := carts.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
}

func TestCartService_AddItemRejectsUnknownOrUnavailable(t *testing.T) {
	ctx := context.Background()
	r := newRestaurant(t, nil, nil, nil)
	require.NoError(t, r.catalog.SetAvailability(ctx, "drink-3", false))

	_, err := r.carts.AddItem(ctx, "s", "drink-3")
	assert.ErrorIs(t, err, domain.ErrUnavailableDish)

	_, err = r.carts.AddItem(ctx, "s", "drink-9")
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
}
