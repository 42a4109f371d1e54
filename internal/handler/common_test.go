package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"IncompleteSubmission", apperrors.ErrIncompleteSubmission, http.StatusBadRequest},
		{"Validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"Forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"QuotaExceeded", apperrors.ErrLoginQuotaExceeded, http.StatusForbidden},
		{"NotFound", apperrors.ErrNotFound, http.StatusNotFound},
		{"Conflict", apperrors.ErrConflict, http.StatusConflict},
		{"Unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleServiceError_WrappedSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Обернутая сентинельная ошибка сохраняет свой статус
	err := fmt.Errorf("%w: hasil peserta=5 exam=10", apperrors.ErrNotFound)
	handleServiceError(c, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
