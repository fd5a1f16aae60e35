package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseOrderFilterFromQuery собирает фильтр списка заказов из query-параметров.
// Неразобранные значения молча заменяются значениями по умолчанию: фильтр -
// это пользовательский ввод из UI, а не API-контракт.
func ParseOrderFilterFromQuery(values url.Values) types.OrderFilter {
	filter := types.OrderFilter{
		Limit: DefaultLimit,
		Page:  1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filter.Limit = MaxLimit
			} else {
				filter.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}

	filter.Search = strings.TrimSpace(values.Get("search"))
	filter.Status = strings.TrimSpace(values.Get("status"))
	filter.BranchID = strings.TrimSpace(values.Get("branch_id"))

	if df := values.Get("date_from"); df != "" {
		if t, err := ParseDateOnly(df); err == nil {
			filter.DateRange.From = &t
		}
	}
	if dt := values.Get("date_to"); dt != "" {
		if t, err := ParseDateOnly(dt); err == nil {
			// Верхняя граница из календаря приходит без времени;
			// растягиваем её до конца дня, чтобы день попал целиком.
			end := EndOfDay(t)
			filter.DateRange.To = &end
		}
	}

	return filter
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, pagination ...*types.Pagination) error {
	response := &HTTPResponse{Status: true, Message: message}
	if len(pagination) > 0 && pagination[0] != nil {
		response.Body = map[string]interface{}{"list": body, "pagination": pagination[0]}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}

		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": invalidInput.Message})
	}

	for sentinel, statusCode := range errorList {
		if errors.Is(err, sentinel) {
			return c.JSON(statusCode, map[string]interface{}{"status": false, "message": sentinel.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}

var errorList = map[error]int{
	apperrors.ErrNotFound:             http.StatusNotFound,
	apperrors.ErrBadRequest:           http.StatusBadRequest,
	apperrors.ErrEmptyRejectionReason: http.StatusBadRequest,
	apperrors.ErrEmptyAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidToken:         http.StatusUnauthorized,
	apperrors.ErrTokenExpired:         http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:     http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:   http.StatusUnauthorized,
	apperrors.ErrUnauthorized:         http.StatusUnauthorized,
}
