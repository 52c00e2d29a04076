package health

import (
	"github.com/ethanbaker/chatbot/pkg/llm"
	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Return status of the API along with the active model profile
func getStatus(profile *llm.Profile) gin.HandlerFunc {
	status := sdk.Health{
		Profile:  profile.Name,
		Provider: profile.Provider,
		Model:    profile.Model,
	}

	return func(c *gin.Context) {
		c.JSON(sdk.NewSuccessResponse("OK", status).AsGinResponse())
	}
}
