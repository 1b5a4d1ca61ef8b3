package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/reativa/portal-busca/internal/api/handlers"
	middlewares "github.com/reativa/portal-busca/internal/middleware"
	"github.com/reativa/portal-busca/internal/observability"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies são os componentes montados pelo main
type Dependencies struct {
	Engine  handlers.SearchService
	Health  *handlers.HealthHandler
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if err := handlers.RegisterValidators(); err != nil {
		deps.Logger.Fatal("falha ao registrar validadores", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(corsMiddleware())
	r.Use(middlewares.AccessLog(deps.Logger))
	r.Use(middlewares.RequestTiming())
	if deps.Metrics != nil {
		r.Use(middlewares.Metrics(deps.Metrics, deps.Metrics.HTTPRequestsInFlight))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	imoveisHandler := handlers.NewImoveisHandler(deps.Engine, deps.Logger)

	api := r.Group("/api/v1")
	{
		imoveis := api.Group("/imoveis")
		imoveis.GET("/busca", imoveisHandler.Buscar)
		imoveis.GET("/pills", imoveisHandler.Pills)
		imoveis.GET("/sugestoes", imoveisHandler.Sugestoes)
		imoveis.GET("/interpretar", imoveisHandler.Interpretar)
	}

	r.GET("/imovel/:slug", imoveisHandler.Imovel)

	if deps.Health != nil {
		r.GET("/liveness", deps.Health.Liveness)
		r.GET("/readiness", deps.Health.Readiness)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Accept-Encoding, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
