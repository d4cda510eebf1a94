package pkg

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"PicadeBackend/internal/auth"
	"PicadeBackend/internal/catalog"
	"PicadeBackend/internal/config"
	"PicadeBackend/internal/personnel"
	"PicadeBackend/pkg/middleware"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewPostgresConfig),
	fx.Provide(config.NewPostgresDB),
	fx.Provide(config.NewRedisConfig),
	fx.Provide(config.NewRedisClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(func(e *config.EmailService) auth.Mailer { return e }),
	fx.Provide(auth.NewCredentialRepository),
	fx.Provide(auth.NewSessionStore),
	fx.Provide(auth.NewResetTokenStore),
	fx.Provide(auth.NewAuthService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(personnel.NewPostgresRepository),
	fx.Provide(personnel.NewLifecycleService),
	fx.Provide(personnel.NewLifecycleHandler),
	fx.Provide(catalog.NewRepository),
	fx.Provide(catalog.NewCatalogHandler),
	fx.Invoke(RegisterRoutes))

// RequestValidator adapts go-playground/validator to Echo.
type RequestValidator struct {
	validate *validator.Validate
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.Validator = &RequestValidator{validate: validator.New()}
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Server running on http://localhost" + addr)
			go func() {
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	authService *auth.AuthService,
	authHandler *auth.AuthHandler,
	lifecycleHandler *personnel.LifecycleHandler,
	catalogHandler *catalog.CatalogHandler,
) {
	e.POST("/register", lifecycleHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware(authService))

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/profile", lifecycleHandler.Profile)
	protected.PUT("/profile", lifecycleHandler.UpdateProfile)
	protected.PUT("/credentials", lifecycleHandler.UpdateCredentials)

	protected.GET("/catalogs/countries/:id/states", catalogHandler.States)
	protected.GET("/catalogs/states/:id/municipalities", catalogHandler.Municipalities)
	protected.GET("/catalogs/directorates/:id/subdirectorates", catalogHandler.Subdirectorates)
	protected.GET("/catalogs/subdirectorates/:id/management-units", catalogHandler.ManagementUnits)
	protected.GET("/catalogs/instructors", catalogHandler.InstructorsActive)
	protected.GET("/catalogs/instructors/history", catalogHandler.InstructorsHistory)

	admin := protected.Group("/admin")
	admin.Use(middleware.CasbinMiddleware)

	admin.POST("/users", lifecycleHandler.AdminCreate)
	admin.GET("/users/:id", lifecycleHandler.AdminGet)
	admin.PUT("/users/:id", lifecycleHandler.AdminUpdate)
	admin.PUT("/users/:id/status", lifecycleHandler.SetStatus)
	admin.DELETE("/users/:id", lifecycleHandler.AdminDelete)
}
