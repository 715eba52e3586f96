package router

import (
	"finance-tracker-api/config"
	"finance-tracker-api/handler"
	"finance-tracker-api/service"
	"net/http"
)

// NewRouter wires every endpoint. Protected routes sit behind the bearer-token
// middleware; /register, /login, /health and the refresh endpoint stay public.
// The refresh endpoint authenticates with the refresh token itself.
func NewRouter(
	cfg *config.Config,
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	transactionHandler *handler.TransactionHandler,
	budgetHandler *handler.BudgetHandler,
) http.Handler {
	mux := http.NewServeMux()
	protected := handler.AuthMiddleware(authService)

	mux.Handle("GET /health", http.HandlerFunc(handler.HealthCheck))

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/token/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/logout", protected(handler.ErrorHandlingMiddleware(authHandler.Logout)))

	mux.Handle("GET /api/users/me", protected(handler.ErrorHandlingMiddleware(userHandler.GetMe)))
	mux.Handle("PUT /api/users/me", protected(handler.ErrorHandlingMiddleware(userHandler.UpdateMe)))
	mux.Handle("DELETE /api/users/me", protected(handler.ErrorHandlingMiddleware(userHandler.DeactivateMe)))

	mux.Handle("POST /api/categories", protected(handler.ErrorHandlingMiddleware(categoryHandler.CreateCategory)))
	mux.Handle("GET /api/categories", protected(handler.ErrorHandlingMiddleware(categoryHandler.ListCategories)))
	mux.Handle("GET /api/categories/{categoryId}", protected(handler.ErrorHandlingMiddleware(categoryHandler.GetCategory)))
	mux.Handle("PUT /api/categories/{categoryId}", protected(handler.ErrorHandlingMiddleware(categoryHandler.UpdateCategory)))
	mux.Handle("DELETE /api/categories/{categoryId}", protected(handler.ErrorHandlingMiddleware(categoryHandler.DeleteCategory)))

	mux.Handle("POST /api/transactions", protected(handler.ErrorHandlingMiddleware(transactionHandler.CreateTransaction)))
	mux.Handle("GET /api/transactions", protected(handler.ErrorHandlingMiddleware(transactionHandler.ListTransactions)))
	mux.Handle("GET /api/transactions/{transactionId}", protected(handler.ErrorHandlingMiddleware(transactionHandler.GetTransaction)))
	mux.Handle("PUT /api/transactions/{transactionId}", protected(handler.ErrorHandlingMiddleware(transactionHandler.UpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{transactionId}", protected(handler.ErrorHandlingMiddleware(transactionHandler.DeleteTransaction)))

	mux.Handle("POST /api/budgets", protected(handler.ErrorHandlingMiddleware(budgetHandler.CreateBudget)))
	mux.Handle("GET /api/budgets", protected(handler.ErrorHandlingMiddleware(budgetHandler.ListBudgets)))
	mux.Handle("GET /api/budgets/{budgetId}", protected(handler.ErrorHandlingMiddleware(budgetHandler.GetBudget)))
	mux.Handle("GET /api/budgets/{budgetId}/progress", protected(handler.ErrorHandlingMiddleware(budgetHandler.GetBudgetProgress)))
	mux.Handle("PUT /api/budgets/{budgetId}", protected(handler.ErrorHandlingMiddleware(budgetHandler.UpdateBudget)))
	mux.Handle("DELETE /api/budgets/{budgetId}", protected(handler.ErrorHandlingMiddleware(budgetHandler.DeleteBudget)))

	rateLimiter := handler.NewRateLimitMiddleware(cfg.RateLimit.GeneralRPM, cfg.RateLimit.AuthRPM)
	return rateLimiter.Handler(mux)
}
