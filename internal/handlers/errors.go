package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondWithServiceError maps service sentinels onto API errors. Client
// errors carry the service message; anything unrecognised is a 500 with
// fallback as message and the cause in details.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	var apiErr *utils.APIError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidOrderStatus),
		errors.Is(err, services.ErrInvalidPaymentStatus),
		errors.Is(err, services.ErrRoleNotFound):
		apiErr = utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error())
	case errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrStaffInactive),
		errors.Is(err, services.ErrOrderInProgress):
		apiErr = utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), err.Error())
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrStaffNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apiErr = utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error())
	case errors.Is(err, services.ErrOrderNumberConflict),
		errors.Is(err, services.ErrUsernameExists):
		apiErr = utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountInactive):
		apiErr = utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), err.Error())
	default:
		apiErr = utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, err.Error())
	}

	event := log.Warn()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", c.FullPath()).Int("status_code", apiErr.StatusCode).Msg(fallback)

	utils.RespondWithError(c, apiErr)
}

// parseIDParam reads a positive int64 path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		details := "must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+label+" format.", details))
		return 0, false
	}
	return id, true
}

func respondBindError(c *gin.Context, err error) {
	utils.LogError(err, "Failed to bind JSON for "+c.FullPath())
	utils.RespondValidationFailed(c, err.Error())
}
