package routes

import (
	"github.com/labstack/echo/v4"

	"approval-gateway/internal/controllers"
)

func runOrderRouter(secureGroup *echo.Group, orderCtrl *controllers.OrderController) {
	{
		secureGroup.GET("/orders", orderCtrl.GetOrders)
		secureGroup.GET("/orders/export", orderCtrl.ExportOrders)
		secureGroup.GET("/orders/matrix/:number", orderCtrl.GetOrderMatrix)
		secureGroup.GET("/orders/:matrixId", orderCtrl.FindOrder)
		secureGroup.POST("/orders/approve", orderCtrl.ApproveOrder)
		secureGroup.POST("/orders/reject", orderCtrl.RejectOrder)
	}
}
