package deposit

import "github.com/gin-gonic/gin"

type IHandler interface {
	RunCycle(c *gin.Context)
	CreditByTxHash(c *gin.Context)
	Rescan(c *gin.Context)
	GetDepositAddress(c *gin.Context)
}
