package routes

import (
	"github.com/labstack/echo/v4"

	"approval-gateway/internal/controllers"
)

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController) {
	{
		api.POST("/auth/session", authCtrl.Login)
	}
}
