package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CheckoutHandler struct {
	cartUC     *usecase.CartUsecase
	checkoutUC *usecase.CheckoutUsecase
}

func NewCheckoutHandler(cartUC *usecase.CartUsecase, checkoutUC *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		cartUC:     cartUC,
		checkoutUC: checkoutUC,
	}
}

func (h *CheckoutHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.cartUC.Address(middleware.SessionIDFrom(r.Context())))
}

func (h *CheckoutHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := utils.DecodeJSON(r, &addr); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := h.cartUC.SetAddress(middleware.SessionIDFrom(r.Context()), addr); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addr)
}

// PlaceOrder submits the session's cart. The response carries the new order id; the
// client navigates to the orders page with it.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutUC.PlaceOrder(r.Context(), middleware.SessionIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{
		Success: true,
		Message: "Order placed",
		Data:    order,
	})
}
