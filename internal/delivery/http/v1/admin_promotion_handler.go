package v1

import (
	"net/http"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type AdminPromotionHandler struct {
	promotionUC *usecase.PromotionUsecase
}

func NewAdminPromotionHandler(uc *usecase.PromotionUsecase) *AdminPromotionHandler {
	return &AdminPromotionHandler{promotionUC: uc}
}

func (h *AdminPromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	promos, err := h.promotionUC.ListPromotions(r.Context(),
		utils.ParseInt(q.Get("limit"), 20),
		utils.ParseInt(q.Get("offset"), 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, promos)
}

func (h *AdminPromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreatePromotionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	promo, err := h.promotionUC.CreatePromotion(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, promo)
}

type setValidityReq struct {
	Valid *bool `json:"valid"`
}

func (h *AdminPromotionHandler) SetValidity(w http.ResponseWriter, r *http.Request) {
	var req setValidityReq
	if err := utils.DecodeJSON(r, &req); err != nil || req.Valid == nil {
		badRequest(w, "valid is required")
		return
	}

	code := r.PathValue("code")
	if err := h.promotionUC.SetValidity(r.Context(), code, *req.Valid); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"code":  utils.NormalizeCode(code),
		"valid": *req.Valid,
	})
}
