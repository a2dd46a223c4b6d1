package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"auth", &AuthError{}, http.StatusUnauthorized},
		{"validation", &ValidationError{Fields: []string{"balance"}}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("ingest: %w", &ValidationError{}), http.StatusBadRequest},
		{"not found", &NotFoundError{Resource: "account", Key: "1"}, http.StatusNotFound},
		{"store", Store("list", errors.New("disk I/O error")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []string{"broker", "balance"}}
	assert.Equal(t, "missing required fields: broker, balance", err.Error())
	assert.Equal(t, "missing required fields", (&ValidationError{}).Error())
}

func TestStoreWrapping(t *testing.T) {
	assert.NoError(t, Store("ping", nil))

	cause := errors.New("database is locked")
	err := Store("upsert", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store upsert: database is locked", err.Error())

	// already wrapped errors keep their original op
	assert.Same(t, err, Store("outer", err))
}
