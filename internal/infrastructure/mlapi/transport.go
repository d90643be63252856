package mlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

func (c *Client) getJSON(ctx context.Context, service, operation, url string) (domain.Payload, error) {
	return c.do(ctx, service, operation, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

func (c *Client) postJSON(ctx context.Context, service, operation, url string, payload any) (domain.Payload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Payload{}, transportError(fmt.Errorf("marshal %s request: %w", operation, err))
	}
	return c.do(ctx, service, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

func (c *Client) postMultipart(ctx context.Context, service, operation, url, field string, file domain.ImageFile) (domain.Payload, error) {
	body, contentType, err := encodeMultipartFile(field, file)
	if err != nil {
		return domain.Payload{}, transportError(fmt.Errorf("encode %s request: %w", operation, err))
	}
	return c.do(ctx, service, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// do performs exactly one HTTP exchange and normalizes the outcome.
func (c *Client) do(
	ctx context.Context,
	service string,
	operation string,
	build func(context.Context) (*http.Request, error),
) (domain.Payload, error) {
	start := time.Now()
	status := 0
	var payload domain.Payload

	call := func(ctx context.Context) error {
		req, err := build(ctx)
		if err != nil {
			return transportError(fmt.Errorf("create %s request: %w", operation, err))
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return transportError(fmt.Errorf("%s %s request: %w", service, operation, err))
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		payload, err = normalizeResponse(resp)
		return err
	}

	err := c.executor.Execute(ctx, service+"."+operation, call, recordBackendFailure)
	err = wrapCircuitOpen(service, operation, err)
	duration := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveBackendCall(service, operation, status, err, duration)
	}
	if err != nil {
		c.logger.Warn("backend_call",
			"service", service,
			"operation", operation,
			"status", status,
			"duration_ms", float64(duration.Microseconds())/1000.0,
			"error", err,
		)
		return domain.Payload{}, err
	}
	c.logger.Debug("backend_call",
		"service", service,
		"operation", operation,
		"status", status,
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return payload, nil
}

// normalizeResponse decodes JSON bodies (by Content-Type), keeps anything else as text,
// and turns non-2xx statuses into *domain.APIError.
func normalizeResponse(resp *http.Response) (domain.Payload, error) {
	contentType := resp.Header.Get("Content-Type")
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Payload{}, transportError(fmt.Errorf("read response body: %w", err))
	}

	payload := domain.Payload{ContentType: contentType, Raw: raw}
	if domain.IsJSONContentType(contentType) {
		var value any
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &value); err != nil {
				return domain.Payload{}, &domain.APIError{
					Message: domain.FallbackErrorMessage,
					Status:  resp.StatusCode,
					Body:    string(raw),
					Err:     fmt.Errorf("decode json response: %w", err),
				}
			}
		}
		payload.Value = value
	} else {
		payload.Value = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Payload{}, &domain.APIError{
			Message: errorDetail(payload.Value),
			Status:  resp.StatusCode,
			Body:    payload.Value,
		}
	}
	return payload, nil
}

func errorDetail(body any) string {
	object, ok := body.(map[string]any)
	if !ok {
		return domain.FallbackErrorMessage
	}
	detail, ok := object["detail"].(string)
	if !ok || strings.TrimSpace(detail) == "" {
		return domain.FallbackErrorMessage
	}
	return detail
}

func transportError(err error) *domain.APIError {
	return &domain.APIError{
		Message: domain.TransportErrorMessage,
		Err:     err,
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipartFile(field string, file domain.ImageFile) ([]byte, string, error) {
	filename := file.Filename
	if filename == "" {
		filename = "upload"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}
