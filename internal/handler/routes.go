package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimostudio/affiliate-dashboard/internal/repository"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

// API holds every /api/v1 handler.
type API struct {
	Categories *CategoryHandler
	Accounts   *AccountHandler
	Users      *UserHandler
	Rules      *RuleHandler
	Sales      *SalesHandler
	Reports    *ReportHandler
	Incentives *IncentiveHandler
}

// NewAPI wires repositories, services and handlers over one pool.
func NewAPI(pool *pgxpool.Pool, clock service.Clock) *API {
	categoryRepo := repository.NewCategoryRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	ruleRepo := repository.NewRuleRepository(pool)
	salesRepo := repository.NewSalesRepository(pool)
	metricsRepo := repository.NewMetricsRepository(pool)
	trendRepo := repository.NewTrendRepository(pool)

	return &API{
		Categories: NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Accounts:   NewAccountHandler(service.NewAccountService(accountRepo)),
		Users:      NewUserHandler(service.NewUserService(userRepo)),
		Rules:      NewRuleHandler(service.NewRuleService(ruleRepo)),
		Sales:      NewSalesHandler(service.NewSalesService(salesRepo, accountRepo, clock)),
		Reports: NewReportHandler(
			service.NewReportService(metricsRepo, accountRepo, clock),
			service.NewTrendService(trendRepo),
		),
		Incentives: NewIncentiveHandler(
			service.NewIncentiveService(accountRepo, salesRepo, ruleRepo, userRepo, clock),
		),
	}
}

func (a *API) Register(api *gin.RouterGroup) {
	api.GET("/categories", a.Categories.List)
	api.POST("/categories", a.Categories.Create)
	api.PUT("/categories/:id", a.Categories.Update)
	api.DELETE("/categories/:id", a.Categories.Delete)

	api.GET("/accounts", a.Accounts.List)
	api.GET("/accounts/:id", a.Accounts.Get)
	api.POST("/accounts", a.Accounts.Create)
	api.PUT("/accounts/:id", a.Accounts.Update)
	api.DELETE("/accounts/:id", a.Accounts.Delete)
	api.POST("/accounts/:id/sales/upload", a.Sales.Upload)
	api.DELETE("/accounts/:id/sales", a.Sales.Delete)
	api.GET("/accounts/:id/sales/coverage", a.Sales.Coverage)

	api.GET("/users", a.Users.List)
	api.GET("/users/:id", a.Users.Get)
	api.POST("/users", a.Users.Create)
	api.PUT("/users/:id", a.Users.Update)
	api.DELETE("/users/:id", a.Users.Delete)

	api.GET("/incentive-rules", a.Rules.List)
	api.GET("/incentive-rules/:id", a.Rules.Get)
	api.POST("/incentive-rules", a.Rules.Create)
	api.PUT("/incentive-rules/:id", a.Rules.Update)
	api.DELETE("/incentive-rules/:id", a.Rules.Delete)

	api.GET("/sales", a.Sales.List)
	api.POST("/sales/batch", a.Sales.CreateBatch)

	api.GET("/reports/summary", a.Reports.Summary)
	api.GET("/reports/dashboard", a.Reports.Dashboard)
	api.GET("/reports/trends", a.Reports.Trends)
	api.GET("/reports/periods", a.Reports.Periods)
	api.GET("/reports/sales.csv", a.Sales.ExportCSV)
	api.GET("/reports/html", a.Reports.HTML)

	api.GET("/incentives", a.Incentives.List)
	api.GET("/incentives/users/:id", a.Incentives.User)
	api.GET("/incentives/export.csv", a.Incentives.ExportCSV)
}
