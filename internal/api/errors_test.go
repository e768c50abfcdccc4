package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapServiceError(t *testing.T) {
	tests := []struct {
		name           string
		op             string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "plain error defaults to 500",
			op:             "get test plan",
			err:            errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to get test plan: connection refused",
		},
		{
			name:           "upstream status is kept",
			op:             "create test suite",
			err:            NewServiceError(http.StatusForbidden, "access denied"),
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Failed to create test suite: access denied",
		},
		{
			name:           "wrapped upstream status is kept",
			op:             "list test suites",
			err:            fmt.Errorf("listing: %w", NewServiceError(http.StatusNotFound, "plan 7 not found")),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Failed to list test suites: listing: plan 7 not found",
		},
		{
			name:           "validation maps to 400",
			op:             "update test case",
			err:            NewValidationError("title", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Failed to update test case: title: must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapServiceError(tt.op, tt.err)
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expectedStatus, wrapped.StatusCode)
			assert.Equal(t, tt.expectedMsg, wrapped.Error())
			assert.Equal(t, tt.op, wrapped.Op)
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestWrapServiceError_Nil(t *testing.T) {
	assert.Nil(t, WrapServiceError("anything", nil))
}

func TestNewServiceError_DefaultStatus(t *testing.T) {
	err := NewServiceError(0, "boom")
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "boom", err.Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(NewServiceError(http.StatusConflict, "x")))
	assert.Equal(t, http.StatusNotFound, StatusCode(NewNotFoundError("test plan", "12")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("x")))
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewNotFoundError("work item", "42")) {
		t.Error("expected NotFoundError to be detected")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", NewServiceError(http.StatusNotFound, "gone"))) {
		t.Error("expected 404 ServiceError to be detected")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("plain error must not be a not-found error")
	}
	assert.Equal(t, "work item 42 not found", NewNotFoundError("work item", "42").Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs.Add("testPlanId", "must be positive")
	assert.Equal(t, "testPlanId: must be positive", errs.Error())

	errs.Add("storyTitle", "is required")
	err := errs.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: testPlanId: must be positive; storyTitle: is required", err.Error())
	assert.True(t, IsValidation(err))
}
