package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/consent-extension-api/internal/system/error/apierror"
	"github.com/wso2/consent-extension-api/internal/system/error/serviceerror"
)

// HTTPStatusFor maps a ServiceError to the HTTP status the manage surface
// exposes. Consent-not-found deliberately maps to 400, matching the
// accelerator behaviour gateways already depend on.
func HTTPStatusFor(err *serviceerror.ServiceError) int {
	if err.Type == serviceerror.ClientErrorType {
		if err.Code == serviceerror.UnsupportedMethodError.Code {
			return http.StatusMethodNotAllowed
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// SendError writes a ServiceError as a JSON HTTP response.
func SendError(c *gin.Context, err *serviceerror.ServiceError) {
	c.AbortWithStatusJSON(HTTPStatusFor(err), apierror.NewErrorResponse(err.Code, err.ErrorDescription))
}
