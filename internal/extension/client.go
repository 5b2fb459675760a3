package extension

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wso2/consent-extension-api/internal/config"
	"github.com/wso2/consent-extension-api/internal/system/constants"
)

// Invoker sends a stage payload to the external decision service and returns
// the stage-typed decision. One blocking round trip per call, no retries.
type Invoker interface {
	InvokeGenerate(ctx context.Context, request *ConsentGenerateRequest) (*ConsentGenerateResponse, error)
	InvokeRetrieve(ctx context.Context, request *ConsentRetrieveRequest) (*ConsentRetrieveResponse, error)
	InvokeRevoke(ctx context.Context, request *ConsentRevokeRequest) (*ConsentRevokeResponse, error)
}

// Client is the HTTP implementation of Invoker.
type Client struct {
	httpClient *http.Client
	config     *config.ServiceExtensionConfig
	logger     *logrus.Logger
}

// NewClient creates a new extension service client.
func NewClient(cfg *config.ServiceExtensionConfig, logger *logrus.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		config: cfg,
		logger: logger,
	}
}

// InvokeGenerate calls the pre-consent-generation stage.
func (c *Client) InvokeGenerate(ctx context.Context, request *ConsentGenerateRequest) (*ConsentGenerateResponse, error) {
	var response ConsentGenerateResponse
	if err := c.call(ctx, PreConsentGeneration, request, request.RequestHeaders, &response); err != nil {
		return nil, err
	}
	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generate response: %w", err)
	}
	return &response, nil
}

// InvokeRetrieve calls the pre-consent-retrieval stage.
func (c *Client) InvokeRetrieve(ctx context.Context, request *ConsentRetrieveRequest) (*ConsentRetrieveResponse, error) {
	var response ConsentRetrieveResponse
	if err := c.call(ctx, PreConsentRetrieval, request, nil, &response); err != nil {
		return nil, err
	}
	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retrieve response: %w", err)
	}
	return &response, nil
}

// InvokeRevoke calls the pre-consent-revocation stage.
func (c *Client) InvokeRevoke(ctx context.Context, request *ConsentRevokeRequest) (*ConsentRevokeResponse, error) {
	var response ConsentRevokeResponse
	if err := c.call(ctx, PreConsentRevocation, request, nil, &response); err != nil {
		return nil, err
	}
	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("invalid revoke response: %w", err)
	}
	return &response, nil
}

// call wraps the stage payload in a correlation envelope, performs the round
// trip for the given stage and decodes the result strictly into out. A body
// that does not match the stage contract is an error, never a partial result.
func (c *Client) call(ctx context.Context, stage ServiceExtensionType, payload interface{}, headers map[string]string, out interface{}) error {
	envelope := NewExternalServiceRequest(payload, headers)

	jsonData, err := json.Marshal(envelope)
	if err != nil {
		c.logger.WithError(err).Error("Failed to marshal extension request")
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + c.endpointFor(stage)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		c.logger.WithError(err).Error("Failed to create extension request")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set(constants.CorrelationIDHeaderName, envelope.CorrelationID)

	c.logger.WithFields(logrus.Fields{
		"url":           url,
		"stage":         stage,
		"correlationId": envelope.CorrelationID,
	}).Debug("Calling extension service")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"stage":    stage,
			"duration": duration,
		}).Error("Extension service call failed")
		return fmt.Errorf("extension service call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read extension response")
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"statusCode":    resp.StatusCode,
		"stage":         stage,
		"duration":      duration,
		"correlationId": envelope.CorrelationID,
	}).Debug("Extension service response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"statusCode": resp.StatusCode,
			"stage":      stage,
		}).Error("Extension service returned non-success status")
		return fmt.Errorf("extension service returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		c.logger.WithError(err).WithField("stage", stage).Error("Failed to decode extension response")
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) endpointFor(stage ServiceExtensionType) string {
	switch stage {
	case PreConsentGeneration:
		return c.config.Endpoints.PreConsentGeneration
	case PreConsentRetrieval:
		return c.config.Endpoints.PreConsentRetrieval
	case PreConsentRevocation:
		return c.config.Endpoints.PreConsentRevocation
	}
	return ""
}

// Close closes idle HTTP client connections.
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}
