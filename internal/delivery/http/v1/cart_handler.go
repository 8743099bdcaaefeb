package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFrom(r.Context())
	utils.WriteJSON(w, http.StatusOK, h.cartUC.GetCart(sessionID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		badRequest(w, "productId is required")
		return
	}

	view, err := h.cartUC.AddItem(r.Context(), middleware.SessionIDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	var req usecase.LineRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	view, err := h.cartUC.DecrementItem(middleware.SessionIDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// RemoveItem takes the line from query parameters: productId, color, size.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := usecase.LineRequest{
		ProductID: q.Get("productId"),
		Color:     q.Get("color"),
		Size:      q.Get("size"),
	}
	if req.ProductID == "" {
		badRequest(w, "productId is required")
		return
	}

	view, err := h.cartUC.RemoveItem(middleware.SessionIDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.Clear(middleware.SessionIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type applyPromotionReq struct {
	Code string `json:"code"`
}

func (h *CartHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	var req applyPromotionReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	view, err := h.cartUC.ApplyPromotion(r.Context(), middleware.SessionIDFrom(r.Context()), req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemovePromotion(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.RemovePromotion(middleware.SessionIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
