package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWriteError_APIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"在庫不足", usecase.NewAPIError(http.StatusBadRequest, usecase.CodeInsufficientStock, "insufficient stock"), http.StatusBadRequest, usecase.CodeInsufficientStock},
		{"NotFound", usecase.NewAPIError(http.StatusNotFound, usecase.CodeNotFound, "order not found"), http.StatusNotFound, usecase.CodeNotFound},
		{"Forbidden", usecase.NewAPIError(http.StatusForbidden, usecase.CodeForbidden, "not your order"), http.StatusForbidden, usecase.CodeForbidden},
		{"キャンセル不可", usecase.NewAPIError(http.StatusBadRequest, usecase.CodeCannotCancel, "cannot cancel"), http.StatusBadRequest, usecase.CodeCannotCancel},
		{"上流障害", usecase.NewAPIError(http.StatusBadGateway, usecase.CodeUpstream, "inventory service error"), http.StatusBadGateway, usecase.CodeUpstream},
		{"未分類は500", errors.New("boom"), http.StatusInternalServerError, usecase.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			assert.NoError(t, writeError(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}
