package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Err 以 JSON 形式输出错误并终止请求
func Err(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code := CodeOf(err)
	if code >= http.StatusInternalServerError {
		log.Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// RecoveryMiddleware 捕获 handler 中的 panic
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				Err(c, New(fmt.Errorf("%v", r), http.StatusInternalServerError, "internal server error"))
			}
		}()
		c.Next()
	}
}

// ErrorHandlerMiddleware 处理 handler 通过 c.Error 记录但未输出的错误
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Err(c, c.Errors.Last().Err)
	}
}
