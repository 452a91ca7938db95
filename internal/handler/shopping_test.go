package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dan246/ff14-tw-market/internal/domain"
)

func TestHandleShopping(t *testing.T) {
	InitValidator()

	lines := []domain.ShoppingLine{{ItemID: 5506, Quantity: 2}}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockOptimizer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Defaults to split mode",
			requestBody: ShoppingRequest{Lines: lines},
			setupMock: func(m *MockOptimizer) {
				m.On("Optimize", mock.Anything, lines, testScope, domain.ModeSplit).
					Return(&domain.ShoppingResult{
						Mode: domain.ModeSplit, Feasible: true, Total: 200,
						Confidence: domain.ConfidenceExact,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"mode":"split"`,
		},
		{
			name:        "Single server mode",
			requestBody: ShoppingRequest{Lines: lines, Mode: "single_server"},
			setupMock: func(m *MockOptimizer) {
				m.On("Optimize", mock.Anything, lines, testScope, domain.ModeSingleServer).
					Return(&domain.ShoppingResult{
						Mode: domain.ModeSingleServer, Feasible: true,
						BestWorld: 4029, Total: 60,
						Confidence: domain.ConfidenceExact,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"best_world":4029`,
		},
		{
			name:           "Unknown mode fails validation",
			requestBody:    ShoppingRequest{Lines: lines, Mode: "teleport"},
			setupMock:      func(m *MockOptimizer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid fulfillment mode",
		},
		{
			name:           "Empty list fails validation",
			requestBody:    ShoppingRequest{},
			setupMock:      func(m *MockOptimizer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"lines"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOptimizer := &MockOptimizer{}
			tt.setupMock(mockOptimizer)

			handler := HandleShopping(mockOptimizer, testScope)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("POST", "/api/v1/shopping", bytes.NewBuffer(body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			mockOptimizer.AssertExpectations(t)
		})
	}
}
