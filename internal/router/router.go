package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"digilib/internal/auth"
	"digilib/internal/config"
	"digilib/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	borrowHandler *handler.BorrowHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/stats", dashboardHandler.Summary)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Catalog routes
	secured.GET("/books", bookHandler.ListBooks)
	secured.GET("/books/:id", bookHandler.GetBook)
	secured.POST("/books", bookHandler.CreateBook)
	secured.PUT("/books/:id", bookHandler.UpdateBook)
	secured.DELETE("/books/:id", bookHandler.DeleteBook)

	// Lending routes
	secured.POST("/books/:id/borrow", borrowHandler.Borrow)
	secured.POST("/borrows/:id/return", borrowHandler.Return)
	secured.GET("/borrows", borrowHandler.ListBorrows)
	secured.GET("/me/borrows", borrowHandler.MyBorrows)

	// Dashboard routes
	secured.GET("/me/dashboard", dashboardHandler.MemberDashboard)
	secured.GET("/dashboard", dashboardHandler.StaffDashboard)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
