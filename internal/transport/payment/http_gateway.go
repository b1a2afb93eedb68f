package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

const RouteAuthorize = "/api/v1/authorize"

type authorizeRequest struct {
	OrderRef string          `json:"order_ref"`
	Amount   decimal.Decimal `json:"amount"`
}

type authorizeResponse struct {
	Approved  bool   `json:"approved"`
	Reference string `json:"reference"`
}

// HTTPGateway реализация авторизации платежей поверх HTTP API внешнего шлюза.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Authorize отправляет запрос на авторизацию суммы amount для заказа orderRef.
// При ответе сервера со статусом отличным от http.StatusOK возвращает StatusCodeError.
// Отклонение платежа ошибкой не считается — вернется Authorization с Approved=false.
//
//nolint:nonamedreturns
func (g *HTTPGateway) Authorize(
	ctx context.Context,
	amount decimal.Decimal,
	orderRef string,
) (auth *Authorization, err error) {
	payload, marshalErr := json.Marshal(authorizeRequest{
		OrderRef: orderRef,
		Amount:   amount,
	})
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal request: %s", marshalErr.Error())
	}

	req, reqErr := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+RouteAuthorize,
		bytes.NewReader(payload),
	)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := g.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read response: %s", readErr.Error())
	}

	var response authorizeResponse
	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil {
		return nil, fmt.Errorf("parse response: %s", jsonErr.Error())
	}

	return &Authorization{
		Approved:  response.Approved,
		Reference: response.Reference,
	}, nil
}
