package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGatewayAuthorize(t *testing.T) {
	cases := []struct {
		name         string
		handler      http.HandlerFunc
		wantErr      bool
		wantApproved bool
	}{
		{
			name: "approved",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, RouteAuthorize, r.URL.Path)

				var req authorizeRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "order-42", req.OrderRef)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(authorizeResponse{
					Approved:  true,
					Reference: "ref-1",
				})
			},
			wantApproved: true,
		},
		{
			name: "declined",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(authorizeResponse{Approved: false})
			},
			wantApproved: false,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			gateway := NewHTTPGateway(server.URL)
			auth, err := gateway.Authorize(context.Background(), decimal.NewFromInt(500), "order-42")

			if tc.wantErr {
				require.Error(t, err)
				var statusErr *StatusCodeError
				require.ErrorAs(t, err, &statusErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantApproved, auth.Approved)
		})
	}
}
