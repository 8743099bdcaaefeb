package v1

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// writeError maps usecase errors to status codes. Anything unrecognized is a 500 and is
// logged; the client only sees a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var addrErr *domain.AddressError

	switch {
	case errors.As(err, &addrErr):
		utils.WriteErrorBody(w, http.StatusUnprocessableEntity, utils.ErrorBody{
			Error:  domain.ErrInvalidAddress.Error(),
			Fields: addrErr.Fields,
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		utils.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailNotVerified), errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidPromotion),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrCheckoutInProgress), errors.Is(err, domain.ErrAlreadyExists):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOrderCancelled):
		utils.WriteError(w, http.StatusRequestTimeout, domain.ErrOrderCancelled.Error())
	case errors.Is(err, domain.ErrOrderPersistenceFailed):
		logger.WithContext(r.Context()).Error().Err(err).Msg("Order persistence failed")
		utils.WriteErrorBody(w, http.StatusServiceUnavailable, utils.ErrorBody{
			Error:     domain.ErrOrderPersistenceFailed.Error(),
			Retryable: true,
		})
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	utils.WriteError(w, http.StatusBadRequest, msg)
}
