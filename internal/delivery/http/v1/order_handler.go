package v1

import (
	"net/http"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: uc}
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUC.GetMyOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}
