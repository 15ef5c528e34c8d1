package stub

import (
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

const (
	identityKey = "email"
	claimAdmin  = "administrador"
)

func (s *Server) newJWTAuth() (*jwt.GinJWTMiddleware, error) {
	ginjwt, err := jwt.New(&jwt.GinJWTMiddleware{
		Realm:            s.opts.Jwt.Realm,
		SigningAlgorithm: "HS256",
		Key:              []byte(s.opts.Jwt.Key),
		Timeout:          s.opts.Jwt.Timeout,
		// ServeRest tokens are not refreshable.
		MaxRefresh:    0,
		IdentityKey:   identityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,

		Authenticator:   s.authenticate,
		PayloadFunc:     payload,
		IdentityHandler: s.identityHandler,
		Authorizator: func(data interface{}, c *gin.Context) bool {
			return data != nil
		},
		LoginResponse: func(c *gin.Context, code int, token string, expire time.Time) {
			c.JSON(http.StatusOK, serverest.LoginBody{
				Message:       serverest.MsgLoginSuccess,
				Authorization: "Bearer " + token,
			})
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			if c.Request.URL.Path == serverest.PathLogin {
				c.JSON(http.StatusUnauthorized, serverest.MessageBody{Message: serverest.MsgInvalidCredentials})
				return
			}
			log.L(c.Request.Context()).Debugw("token rejected", "code", code, "reason", message)
			c.JSON(http.StatusUnauthorized, serverest.MessageBody{Message: serverest.MsgTokenInvalid})
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "建立 JWT middleware 失败")
	}
	return ginjwt, nil
}

// validateLogin rejects malformed login bodies with 400 before the JWT handler
// sees them. The body is cached so the authenticator can bind it again.
func validateLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req serverest.LoginRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, bindingErrors(err))
			return
		}
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context) (interface{}, error) {
	var req serverest.LoginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		return nil, jwt.ErrMissingLoginValues
	}
	u, ok := s.store.userByEmail(req.Email)
	if !ok || u.Password != req.Password {
		return nil, jwt.ErrFailedAuthentication
	}
	return &u, nil
}

func payload(data interface{}) jwt.MapClaims {
	u, ok := data.(*serverest.User)
	if !ok {
		return jwt.MapClaims{}
	}
	return jwt.MapClaims{
		identityKey: u.Email,
		claimAdmin:  u.Administrador,
	}
}

// identityHandler returns nil once the token's user no longer exists.
func (s *Server) identityHandler(c *gin.Context) interface{} {
	claims := jwt.ExtractClaims(c)
	email, _ := claims[identityKey].(string)
	if email == "" {
		return nil
	}
	u, ok := s.store.userByEmail(email)
	if !ok {
		return nil
	}
	return &u
}

// requireAdmin must run after the JWT middleware.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(identityKey)
		u, ok := v.(*serverest.User)
		if !ok || u.Administrador != serverest.AdminTrue {
			c.AbortWithStatusJSON(http.StatusForbidden, serverest.MessageBody{Message: serverest.MsgAdminOnly})
			return
		}
		c.Next()
	}
}
