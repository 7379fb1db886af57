package withdrawal

import "github.com/gin-gonic/gin"

type IHandler interface {
	Create(c *gin.Context)
	Approve(c *gin.Context)
	Send(c *gin.Context)
	Retry(c *gin.Context)
	Fail(c *gin.Context)
}
