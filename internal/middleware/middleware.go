package middleware

import (
	"voltrix/internal/handler/ping"

	"github.com/gin-gonic/gin"
)

// Middleware 全局中间件和自检路由，作为一个Router挂到gin上
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

func (m *Middleware) Load(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(RequestId())
	g.Use(Logger)
	g.Use(NoCache())
	g.Use(Options())
	g.Use(Secure())
	g.Use(ApiBaseHeader())

	g.GET("/ping", ping.Ping())
}
