// Package manage implements the consent manage dispatcher: request
// validation, routing to the lifecycle operations and orchestration of the
// external decision service against the consent store.
package manage

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wso2/consent-extension-api/internal/consent"
	"github.com/wso2/consent-extension-api/internal/extension"
	"github.com/wso2/consent-extension-api/internal/models"
	"github.com/wso2/consent-extension-api/internal/system/constants"
	"github.com/wso2/consent-extension-api/internal/system/error/serviceerror"
	"github.com/wso2/consent-extension-api/internal/system/utils"
)

// File-transfer method descriptors forwarded by some gateways. Rejected the
// same way as PUT and PATCH.
const (
	MethodFileUploadPost = "FILE_UPLOAD_POST"
	MethodFileGet        = "FILE_GET"
)

// Handler routes manage operation descriptors to the lifecycle operations.
// All collaborators are injected; there is no ambient service lookup.
type Handler struct {
	consentService consent.CoreService
	invoker        extension.Invoker
	logger         *logrus.Logger
}

// NewHandler creates a manage handler.
func NewHandler(consentService consent.CoreService, invoker extension.Invoker, logger *logrus.Logger) *Handler {
	return &Handler{
		consentService: consentService,
		invoker:        invoker,
		logger:         logger,
	}
}

// HandleRequest dispatches a manage operation descriptor. Unsupported methods
// are rejected outright; this is fixed policy, not configuration.
func (h *Handler) HandleRequest(ctx context.Context, req *models.ConsentManageRequest) (*models.ConsentManageResponse, *serviceerror.ServiceError) {
	switch strings.ToUpper(req.Method) {
	case http.MethodGet:
		return h.handleGet(ctx, req)
	case http.MethodPost:
		return h.handlePost(ctx, req)
	case http.MethodDelete:
		return h.handleDelete(ctx, req)
	case http.MethodPut:
		h.logger.Error("Method PUT is not supported")
		return nil, serviceerror.CustomServiceError(serviceerror.UnsupportedMethodError, "Method PUT is not supported")
	case http.MethodPatch:
		h.logger.Error("Method PATCH is not supported")
		return nil, serviceerror.CustomServiceError(serviceerror.UnsupportedMethodError, "Method PATCH is not supported")
	case MethodFileUploadPost:
		h.logger.Error("Method File Upload POST is not supported")
		return nil, serviceerror.CustomServiceError(serviceerror.UnsupportedMethodError, "Method File Upload POST is not supported")
	case MethodFileGet:
		h.logger.Error("Method File Upload GET is not supported")
		return nil, serviceerror.CustomServiceError(serviceerror.UnsupportedMethodError, "Method File Upload GET is not supported")
	default:
		h.logger.WithField("method", req.Method).Error("Unsupported manage method")
		return nil, serviceerror.CustomServiceError(serviceerror.UnsupportedMethodError, "Method "+req.Method+" is not supported")
	}
}

// handleGet implements the retrieve operation. The extension call is purely
// an authorization gate; the response body is built from persisted state.
func (h *Handler) handleGet(ctx context.Context, req *models.ConsentManageRequest) (*models.ConsentManageResponse, *serviceerror.ServiceError) {
	consentID, svcErr := h.validateConsentPath(req)
	if svcErr != nil {
		return nil, svcErr
	}

	resource, attributes, svcErr := h.loadConsentWithAttributes(ctx, consentID)
	if svcErr != nil {
		return nil, svcErr
	}

	retrieveRequest := &extension.ConsentRetrieveRequest{
		ConsentID:         consentID,
		ConsentType:       utils.ExtractConsentType(req.ResourcePath),
		ResourcePath:      req.ResourcePath,
		ConsentAttributes: attributes,
	}

	if _, err := h.invoker.InvokeRetrieve(ctx, retrieveRequest); err != nil {
		h.logger.WithError(err).WithField("consentId", consentID).Error("Consent retrieval validation failed")
		return nil, serviceerror.CustomServiceError(serviceerror.ExternalServiceError, "Error occurred while handling the request")
	}

	return &models.ConsentManageResponse{
		Status: http.StatusOK,
		Payload: &models.ConsentRetrievalResponse{
			ConsentID:          resource.ConsentID,
			ClientID:           resource.ClientID,
			ConsentType:        resource.ConsentType,
			Status:             resource.CurrentStatus,
			ConsentFrequency:   resource.ConsentFrequency,
			ValidityTime:       resource.ValidityTime,
			RecurringIndicator: resource.RecurringIndicator,
			CreatedTime:        resource.CreatedTime,
			UpdatedTime:        resource.UpdatedTime,
			Receipt:            []byte(resource.Receipt),
		},
	}, nil
}

// handlePost implements the generate operation. No consent exists yet, so
// there is no persistence read before the extension call.
func (h *Handler) handlePost(ctx context.Context, req *models.ConsentManageRequest) (*models.ConsentManageResponse, *serviceerror.ServiceError) {
	if err := utils.ValidateClientID(req.ClientID); err != nil {
		h.logger.Error("Client ID missing in the request")
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if req.ResourcePath == "" {
		h.logger.Error("Resource path not found")
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "resource path not found")
	}

	generateRequest := &extension.ConsentGenerateRequest{
		ClientID:       req.ClientID,
		ResourcePath:   req.ResourcePath,
		ConsentPayload: req.Payload,
		RequestHeaders: req.Headers,
	}

	decision, err := h.invoker.InvokeGenerate(ctx, generateRequest)
	if err != nil {
		h.logger.WithError(err).Error("Consent generation decision failed")
		return nil, serviceerror.CustomServiceError(serviceerror.ExternalServiceError, "Error occurred while handling the request")
	}

	orgID := req.OrgID
	if orgID == "" {
		orgID = constants.DefaultOrgID
	}

	resource := &models.ConsentResource{
		ClientID:           req.ClientID,
		OrgID:              orgID,
		Receipt:            models.JSON(decision.Receipt),
		ConsentType:        decision.ConsentType,
		ConsentFrequency:   decision.ConsentFrequency,
		ValidityTime:       decision.ValidityTime,
		RecurringIndicator: decision.RecurringIndicator,
		CurrentStatus:      decision.AuthorizationStatus,
	}

	created, err := h.consentService.CreateAuthorizableConsent(ctx, resource, nil,
		decision.ConsentStatus, decision.AuthorizationType, true)
	if err != nil {
		// The decision service already approved this consent; a persistence
		// failure here leaves the two sides inconsistent and must be loud.
		h.logger.WithError(err).WithFields(logrus.Fields{
			"clientId":      req.ClientID,
			"consentStatus": decision.ConsentStatus,
		}).Error("Error persisting consent after approved generation decision")
		return nil, serviceerror.CustomServiceError(serviceerror.PersistenceError, "Error persisting consent")
	}

	return &models.ConsentManageResponse{
		Status: http.StatusCreated,
		Payload: &models.ConsentCreationResponse{
			ConsentID:          created.ConsentID,
			ClientID:           created.ClientID,
			ConsentType:        created.ConsentType,
			Status:             created.CurrentStatus,
			ConsentFrequency:   created.ConsentFrequency,
			ValidityTime:       created.ValidityTime,
			RecurringIndicator: created.RecurringIndicator,
			CreatedTime:        created.CreatedTime,
			RequestPayload:     req.Payload,
		},
	}, nil
}

// handleDelete implements the revoke operation. Each call re-runs the full
// pipeline; an already-revoked consent is not short-circuited.
func (h *Handler) handleDelete(ctx context.Context, req *models.ConsentManageRequest) (*models.ConsentManageResponse, *serviceerror.ServiceError) {
	consentID, svcErr := h.validateConsentPath(req)
	if svcErr != nil {
		return nil, svcErr
	}

	resource, attributes, svcErr := h.loadConsentWithAttributes(ctx, consentID)
	if svcErr != nil {
		return nil, svcErr
	}

	revokeRequest := &extension.ConsentRevokeRequest{
		ConsentResource:   resource,
		ResourcePath:      req.ResourcePath,
		ConsentAttributes: attributes,
	}

	decision, err := h.invoker.InvokeRevoke(ctx, revokeRequest)
	if err != nil {
		h.logger.WithError(err).WithField("consentId", consentID).Error("Consent revocation decision failed")
		return nil, serviceerror.CustomServiceError(serviceerror.ExternalServiceError, "Error occurred while handling the request")
	}

	success, err := h.consentService.RevokeConsent(ctx, consentID, decision.RevokedStatus, nil, decision.ShouldRevokeTokens)
	if err != nil {
		h.logger.WithError(err).WithField("consentId", consentID).Error("Error revoking consent")
		return nil, serviceerror.CustomServiceError(serviceerror.PersistenceError, "Error occurred while handling the request")
	}
	if !success {
		h.logger.WithField("consentId", consentID).Error("Consent revocation unsuccessful")
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Consent revocation unsuccessful")
	}

	return &models.ConsentManageResponse{Status: http.StatusNoContent}, nil
}

// validateConsentPath enforces the GET/DELETE preconditions: client ID
// present, path splitting into at least two segments with a non-empty first
// segment and a UUID-shaped consent ID. Nothing is called before these pass.
func (h *Handler) validateConsentPath(req *models.ConsentManageRequest) (string, *serviceerror.ServiceError) {
	if err := utils.ValidateClientID(req.ClientID); err != nil {
		h.logger.Error("Client ID missing in the request")
		return "", serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateResourcePath(req.ResourcePath); err != nil {
		h.logger.WithField("resourcePath", req.ResourcePath).Error("Invalid resource path")
		return "", serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	consentID := utils.ExtractConsentID(req.ResourcePath)
	if err := utils.ValidateConsentID(consentID); err != nil {
		h.logger.Error("Invalid consent ID found")
		return "", serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	return consentID, nil
}

func (h *Handler) loadConsentWithAttributes(ctx context.Context, consentID string) (*models.ConsentResource, map[string]string, *serviceerror.ServiceError) {
	resource, err := h.consentService.GetConsent(ctx, consentID)
	if err != nil {
		h.logger.WithError(err).WithField("consentId", consentID).Error("Error loading consent")
		return nil, nil, serviceerror.CustomServiceError(serviceerror.PersistenceError, "Error occurred while handling the request")
	}
	if resource == nil {
		h.logger.WithField("consentId", consentID).Error("Consent not found in the database")
		return nil, nil, serviceerror.CustomServiceError(serviceerror.ConsentNotFoundError, "Consent not found in the database")
	}

	attributes, err := h.consentService.GetConsentAttributes(ctx, consentID)
	if err != nil {
		h.logger.WithError(err).WithField("consentId", consentID).Error("Error loading consent attributes")
		return nil, nil, serviceerror.CustomServiceError(serviceerror.PersistenceError, "Error occurred while handling the request")
	}
	return resource, attributes, nil
}
