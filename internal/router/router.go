package router

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wso2/consent-extension-api/internal/config"
	"github.com/wso2/consent-extension-api/internal/manage"
	"github.com/wso2/consent-extension-api/internal/models"
	"github.com/wso2/consent-extension-api/internal/system/constants"
	"github.com/wso2/consent-extension-api/internal/system/error/serviceerror"
	"github.com/wso2/consent-extension-api/internal/system/middleware"
	"github.com/wso2/consent-extension-api/internal/system/utils"
)

// SetupRouter configures all API routes
func SetupRouter(manageHandler *manage.Handler, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())

	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(middleware.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
		}))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// The manage surface forwards any method on any resource path to the
	// dispatcher; method policy lives there, not in the route table.
	group := router.Group(constants.APIBasePath + "/consent/manage")
	group.Any("/*resourcePath", manageRequestAdapter(manageHandler, logger))

	return router
}

// manageRequestAdapter translates a gin request into a manage operation
// descriptor and writes the dispatcher's outcome back.
func manageRequestAdapter(handler *manage.Handler, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.WithError(err).Error("Failed to read request body")
			utils.SendError(c, serviceerror.CustomServiceError(serviceerror.ValidationError, "invalid request body"))
			return
		}

		headers := make(map[string]string, len(c.Request.Header))
		for key, values := range c.Request.Header {
			if len(values) > 0 {
				headers[key] = values[0]
			}
		}

		req := &models.ConsentManageRequest{
			Method:       c.Request.Method,
			ClientID:     c.GetHeader(constants.HeaderClientID),
			OrgID:        c.GetHeader(constants.HeaderOrgID),
			ResourcePath: strings.TrimPrefix(c.Param("resourcePath"), "/"),
			Payload:      payload,
			Headers:      headers,
		}

		resp, svcErr := handler.HandleRequest(c.Request.Context(), req)
		if svcErr != nil {
			utils.SendError(c, svcErr)
			return
		}

		if resp.Payload == nil {
			c.Status(resp.Status)
			return
		}
		c.JSON(resp.Status, resp.Payload)
	}
}
