package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyConnectionError(t *testing.T) {
	const endpoint = "http://localhost:8095/mcp"

	tests := []struct {
		name         string
		err          error
		expectedType ConnectionErrorType
	}{
		{
			name:         "connection refused",
			err:          errors.New("Post \"http://localhost:8095/mcp\": dial tcp 127.0.0.1:8095: connect: connection refused"),
			expectedType: ConnectionErrorNetwork,
		},
		{
			name:         "dns failure",
			err:          &url.Error{Op: "Post", URL: endpoint, Err: &net.DNSError{Err: "no such host", Name: "qe.invalid"}},
			expectedType: ConnectionErrorDNS,
		},
		{
			name:         "deadline",
			err:          fmt.Errorf("initialization failed: %w", context.DeadlineExceeded),
			expectedType: ConnectionErrorTimeout,
		},
		{
			name:         "certificate",
			err:          errors.New("tls: failed to verify certificate: x509: certificate signed by unknown authority"),
			expectedType: ConnectionErrorTLS,
		},
		{
			name:         "anything else",
			err:          errors.New("unexpected status code: 418"),
			expectedType: ConnectionErrorUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connErr := ClassifyConnectionError(tt.err, endpoint)
			require.NotNil(t, connErr)
			assert.Equal(t, tt.expectedType, connErr.Type)
			assert.Equal(t, endpoint, connErr.Endpoint)
			assert.ErrorIs(t, connErr, tt.err)
			assert.Contains(t, connErr.Error(), tt.expectedType.String())
		})
	}

	assert.Nil(t, ClassifyConnectionError(nil, endpoint))
}

func TestConnectionError_ServeHint(t *testing.T) {
	network := &ConnectionError{Endpoint: "http://localhost:8095/mcp", Type: ConnectionErrorNetwork, Reason: errors.New("connection refused")}
	assert.Contains(t, network.Error(), "Start it with: qemcp serve")

	tlsErr := &ConnectionError{Endpoint: "https://qe.example/mcp", Type: ConnectionErrorTLS, Reason: errors.New("x509: bad")}
	assert.NotContains(t, tlsErr.Error(), "qemcp serve")
}
