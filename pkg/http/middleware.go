package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/mdm"
)

const (
	HeaderDeviceID          = "X-Device-ID"
	HeaderDeviceCertificate = "X-Device-Certificate"

	ctxKeyDeviceID  = "deviceID"
	ctxKeyPrincipal = "familyPrincipal"
)

// DeviceAuth verifies the enrollment certificate presented by a tablet
// and binds the authenticated device id into the request context.
func (rs *RestfulServer) DeviceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(HeaderDeviceID)
		certificate := c.GetHeader(HeaderDeviceCertificate)

		if !rs.Mdm.Tokens.VerifyDeviceCertificate(deviceID, certificate) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": mdm.ErrAuthenticationFailed.Error()})
			return
		}

		c.Set(ctxKeyDeviceID, deviceID)
		c.Next()
	}
}

// FamilyAuth resolves the bearer token to a family session.
func (rs *RestfulServer) FamilyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		principal, ok := rs.Mdm.Tokens.VerifyFamilySession(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": mdm.ErrAuthenticationFailed.Error()})
			return
		}

		c.Set(ctxKeyPrincipal, principal)
		c.Next()
	}
}

func authedDeviceID(c *gin.Context) string {
	return c.GetString(ctxKeyDeviceID)
}

func authedPrincipal(c *gin.Context) *mdm.FamilyPrincipal {
	v, exists := c.Get(ctxKeyPrincipal)
	if !exists {
		return nil
	}
	return v.(*mdm.FamilyPrincipal)
}
