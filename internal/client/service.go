package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/publicsuffix"
)

const maxResponseBytes = 8 << 20

// Service is the REST client of the investment backend. The backend session
// lives in a cookie; when a store is given the cookie survives process restarts.
type Service struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	store   store.SessionStore
}

func NewService(ctx context.Context, cfg models.ApiConfig, sessions store.SessionStore) (*Service, error) {
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid api base url: %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("unable to create cookie jar: %w", err)
	}

	httpClient, err := createCustomHttpClient(cfg, jar)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	s := &Service{
		baseURL: baseURL,
		http:    httpClient,
		jar:     jar,
		store:   sessions,
	}

	if err := s.restoreCookies(ctx); err != nil {
		zap.L().Warn("Unable to restore backend cookies", zap.Error(err))
	}

	return s, nil
}

func createCustomHttpClient(cfg models.ApiConfig, jar http.CookieJar) (*http.Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 15 * time.Second
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	idleTimeout := cfg.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = 90 * time.Second
	}

	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   dialTimeout,
		}).DialContext,
		MaxIdleConns:          maxIdle,
		IdleConnTimeout:       idleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &http.Client{
		Transport: tr,
		Jar:       jar,
		Timeout:   timeout,
	}, nil
}

// BaseURL returns the backend root all endpoint paths are resolved against
func (s *Service) BaseURL() string {
	return s.baseURL.String()
}

func (s *Service) restoreCookies(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	records, err := s.store.LoadCookies(ctx, s.baseURL.Host)
	if err != nil {
		return err
	}

	cookies := make([]*http.Cookie, 0, len(records))
	for _, r := range records {
		cookies = append(cookies, &http.Cookie{
			Name:     r.Name,
			Value:    r.Value,
			Path:     r.Path,
			Expires:  r.ExpiresAt,
			Secure:   r.Secure,
			HttpOnly: r.HttpOnly,
		})
	}
	s.jar.SetCookies(s.baseURL, cookies)

	zap.L().Debug("Restored backend cookies", zap.Int("count", len(cookies)))
	return nil
}

// persistCookies writes the jar content for the backend host, keeping the
// attributes of any cookie the response just set
func (s *Service) persistCookies(ctx context.Context, resp *http.Response) {
	if s.store == nil || len(resp.Cookies()) == 0 {
		return
	}

	attrs := make(map[string]*http.Cookie)
	for _, c := range resp.Cookies() {
		attrs[c.Name] = c
	}

	now := time.Now()
	var records []models.CookieRecord
	for _, c := range s.jar.Cookies(s.baseURL) {
		record := models.CookieRecord{Host: s.baseURL.Host, Name: c.Name, Value: c.Value, Path: "/"}
		if set, ok := attrs[c.Name]; ok {
			if set.Path != "" {
				record.Path = set.Path
			}
			record.Secure = set.Secure
			record.HttpOnly = set.HttpOnly
			switch {
			case set.MaxAge > 0:
				record.ExpiresAt = now.Add(time.Duration(set.MaxAge) * time.Second)
			case !set.Expires.IsZero():
				record.ExpiresAt = set.Expires
			}
		}
		records = append(records, record)
	}

	if err := s.store.SaveCookies(ctx, s.baseURL.Host, records); err != nil {
		zap.L().Warn("Unable to persist backend cookies", zap.Error(err))
	}
}

func (s *Service) endpoint(path string, query url.Values) string {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request. A nil out discards the response body.
func (s *Service) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("unable to create %s %s request: %w", method, path, err)
	}
	requestId := uuid.New().String()
	operation := ""
	if rc := models.GetRequestContext(ctx); rc != nil {
		operation = rc.Operation
		if rc.RequestId != "" {
			requestId = rc.RequestId
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestId)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		zap.L().Warn("Backend request failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestId),
			zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Debug("Failed to close response body", zap.Error(err))
		}
	}()

	s.persistCookies(ctx, resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading %s %s response: %v", ErrNetwork, method, path, err)
	}

	zap.L().Debug("Backend request",
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestId),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unable to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeOptional decodes into a fresh T and returns nil when the backend sent no body
func decodeOptional[T any](ctx context.Context, s *Service, method, path string, body any) (*T, error) {
	var raw json.RawMessage
	if err := s.do(ctx, method, path, nil, body, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to decode %s %s response: %w", method, path, err)
	}
	return &out, nil
}
