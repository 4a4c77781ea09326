package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/casino-server/internal/errors"
)

// respondError 业务错误统一按200返回短错误码，前端只认响应体
func respondError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{"error": errors.APICode(err)})
}

// respondBadJSON 请求体不是合法JSON时的唯一一种400
func respondBadJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "er_general"})
}

// respondGameError 牌局接口的错误包在data里
func respondGameError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"error": errors.APICode(err)}})
}

// respondGameBadJSON 牌局接口的400
func respondGameBadJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"data": gin.H{"error": "er_general"}})
}
