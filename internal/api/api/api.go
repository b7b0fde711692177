package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"davet/cmd/middleware"
	"davet/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/api")

	apiGroup.GET("/status", r.Service.Status)

	apiGroup.GET("/events", r.Service.GetAllEvents)
	apiGroup.POST("/events", r.Service.CreateEvent)
	apiGroup.GET("/events/:id", r.Service.GetEvent)
	apiGroup.PUT("/events/:id", r.Service.UpdateEvent)
	apiGroup.DELETE("/events/:id", r.Service.DeleteEvent)
	apiGroup.POST("/events/:id/responses", r.Service.RecordResponse)
	apiGroup.GET("/events/:id/export", r.Service.ExportEvent)

	apiGroup.GET("/employees", r.Service.GetAllEmployees)
	apiGroup.POST("/employees", r.Service.CreateEmployee)
	apiGroup.PUT("/employees/:id", r.Service.UpdateEmployee)
	apiGroup.DELETE("/employees/:id", r.Service.DeleteEmployee)

	apiGroup.POST("/auth/login", r.Service.Login)

	return app
}
