package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam разбирает числовой URL-параметр param и кладет его
// в контекст Gin под ключом ctxKey как uint. Нечисловое значение
// обрывает цепочку с ответом 400, так что обработчикам достается уже
// проверенный идентификатор.
func ExtractUintParam(param, ctxKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(param)
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", param)})
			c.Abort()
			return
		}
		c.Set(ctxKey, uint(value))
		c.Next()
	}
}
