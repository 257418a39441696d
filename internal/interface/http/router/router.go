package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookstore-api/docs" // swagger文档
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/response"
	"github.com/xiebiao/bookstore-api/pkg/validator"
)

// New 创建Gin引擎并注册全部路由
// 中间件顺序:Recovery → RequestID → Tracing → Metrics → AccessLog
func New(bookHandler *handler.BookHandler, logger *zap.Logger) *gin.Engine {
	// 请求体中出现未声明字段直接拒绝
	binding.EnableDecoderDisallowUnknownFields = true
	validator.Setup()

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.AccessLog(logger),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	books := r.Group("/books")
	{
		books.POST("", bookHandler.CreateBook)
		books.GET("", bookHandler.ListBooks)
		books.GET("/:isbn", bookHandler.GetBook)
		books.PUT("/:isbn", bookHandler.UpdateBook)
		books.DELETE("/:isbn", bookHandler.DeleteBook)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.New(apperrors.ErrCodeNotFound,
			fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)))
	})

	return r
}

// NewServer 包装成带超时设置的http.Server
func NewServer(cfg config.ServerConfig, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
