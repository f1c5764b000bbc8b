package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/airportmgmt/airport-web/internal/ports"
)

// fetch performs req and decodes the envelope data into T. Missing or null data yields the zero T.
func fetch[T any](ctx context.Context, b ports.Backend, req ports.BackendRequest) (T, string, error) {
	var out T
	resp, err := b.Call(ctx, req)
	if err != nil {
		return out, "", err
	}
	if len(resp.Data) == 0 || bytes.Equal(bytes.TrimSpace(resp.Data), []byte("null")) {
		return out, resp.Message, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, "", fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return out, resp.Message, nil
}

// mutate performs req and returns the backend message, or fallback when the backend sent none.
func mutate(ctx context.Context, b ports.Backend, req ports.BackendRequest, fallback string) (string, error) {
	resp, err := b.Call(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Message == "" {
		return fallback, nil
	}
	return resp.Message, nil
}

func get(path string, query url.Values) ports.BackendRequest {
	return ports.BackendRequest{Method: http.MethodGet, Path: path, Query: query}
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
