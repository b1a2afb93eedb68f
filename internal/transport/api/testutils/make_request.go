package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()

	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

// MakeJSONRequest сериализует body в JSON и выполняет запрос с соответствующим Content-Type.
func MakeJSONRequest(args RequestArgs, body any, opts ...func(*RequestOptions)) (*http.Response, error) {
	payload, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal request body: %s", marshalErr.Error())
	}
	args.Body = bytes.NewReader(payload)

	opts = append(opts, WithHeader("Content-Type", "application/json"))
	return MakeRequest(args, opts...)
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}
