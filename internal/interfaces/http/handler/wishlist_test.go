package handler

import (
	"net/http"
	"testing"

	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/drobe/backend/tests/testutil/apitest"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistHandler_RequiresCustomer(t *testing.T) {
	f := newTradeFixture(t)
	id := uuid.NewString()

	tests := []struct {
		name    string
		method  string
		body    any
		handler gin.HandlerFunc
	}{
		{name: "list", method: http.MethodGet, handler: f.wishlist.List},
		{name: "save", method: http.MethodPost, body: tradeapp.SaveItemRequest{}, handler: f.wishlist.Save},
		{name: "remove", method: http.MethodDelete, handler: f.wishlist.Remove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := apitest.NewRequest(t, tt.method, "/api/v1/wishlist/"+id, tt.body).
				WithSession("anon-session").
				WithParam("id", id).
				Serve(tt.handler)
			resp.AssertError(t, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
		})
	}
}

func TestWishlistHandler_SaveListRemove(t *testing.T) {
	f := newTradeFixture(t)
	coat := f.product("Wax Coat", "180.00")
	customer := uuid.New()

	save := func() *apitest.Response {
		return apitest.NewRequest(t, http.MethodPost, "/api/v1/wishlist", tradeapp.SaveItemRequest{ProductID: &coat}).
			AsCustomer(customer).
			Serve(f.wishlist.Save)
	}

	resp := save()
	assert.Equal(t, http.StatusCreated, resp.Code, string(resp.Body))
	first := apitest.Data[tradeapp.SavedItemResponse](t, resp)
	assert.Equal(t, "Wax Coat", first.Label)
	assert.True(t, decimal.RequireFromString("180.00").Equal(first.UnitPrice))

	// Saving the same product again hands back the existing entry
	again := apitest.Data[tradeapp.SavedItemResponse](t, save())
	assert.Equal(t, first.ID, again.ID)

	resp = apitest.NewRequest(t, http.MethodGet, "/api/v1/wishlist", nil).
		AsCustomer(customer).
		Serve(f.wishlist.List)
	resp.AssertOK(t)
	assert.Len(t, apitest.Data[[]tradeapp.SavedItemResponse](t, resp), 1)

	t.Run("another customer cannot remove it", func(t *testing.T) {
		resp := apitest.NewRequest(t, http.MethodDelete, "/api/v1/wishlist/"+first.ID.String(), nil).
			AsCustomer(uuid.New()).
			WithParam("id", first.ID.String()).
			Serve(f.wishlist.Remove)
		resp.AssertError(t, http.StatusForbidden, dto.ErrCodeForbidden)
	})

	resp = apitest.NewRequest(t, http.MethodDelete, "/api/v1/wishlist/"+first.ID.String(), nil).
		AsCustomer(customer).
		WithParam("id", first.ID.String()).
		Serve(f.wishlist.Remove)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body)

	resp = apitest.NewRequest(t, http.MethodGet, "/api/v1/wishlist", nil).
		AsCustomer(customer).
		Serve(f.wishlist.List)
	resp.AssertOK(t)
	assert.Empty(t, apitest.Data[[]tradeapp.SavedItemResponse](t, resp))
}

func TestWishlistHandler_SaveNeedsOneTarget(t *testing.T) {
	f := newTradeFixture(t)

	resp := apitest.NewRequest(t, http.MethodPost, "/api/v1/wishlist", tradeapp.SaveItemRequest{}).
		AsCustomer(uuid.New()).
		Serve(f.wishlist.Save)
	resp.AssertError(t, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestWishlistHandler_MoveToCart(t *testing.T) {
	f := newTradeFixture(t)
	coat := f.product("Wax Coat", "180.00")
	customer := uuid.New()

	resp := apitest.NewRequest(t, http.MethodPost, "/api/v1/wishlist", tradeapp.SaveItemRequest{ProductID: &coat}).
		AsCustomer(customer).
		Serve(f.wishlist.Save)
	require.Equal(t, http.StatusCreated, resp.Code, string(resp.Body))
	saved := apitest.Data[tradeapp.SavedItemResponse](t, resp)

	resp = apitest.NewRequest(t, http.MethodPost, "/api/v1/wishlist/"+saved.ID.String()+"/move-to-cart", nil).
		AsCustomer(customer).
		WithParam("id", saved.ID.String()).
		Serve(f.wishlist.MoveToCart)
	assert.Equal(t, http.StatusNoContent, resp.Code, string(resp.Body))

	resp = apitest.NewRequest(t, http.MethodGet, "/api/v1/cart", nil).
		AsCustomer(customer).
		Serve(f.cart.Get)
	resp.AssertOK(t)
	cart := apitest.Data[tradeapp.CartResponse](t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Wax Coat", cart.Items[0].Label)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	resp = apitest.NewRequest(t, http.MethodGet, "/api/v1/wishlist", nil).
		AsCustomer(customer).
		Serve(f.wishlist.List)
	resp.AssertOK(t)
	assert.Empty(t, apitest.Data[[]tradeapp.SavedItemResponse](t, resp))

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		resp := apitest.NewRequest(t, http.MethodPost, "/api/v1/wishlist/"+saved.ID.String()+"/move-to-cart", nil).
			WithSession("anon-session").
			WithParam("id", saved.ID.String()).
			Serve(f.wishlist.MoveToCart)
		resp.AssertError(t, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}
