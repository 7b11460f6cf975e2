package router

import (
	"time"

	"github.com/anonto42/tradegram/backend/internal/handlers"
	"github.com/anonto42/tradegram/backend/internal/middleware"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Repositories bundles the stores the services are built on.
type Repositories struct {
	Users         repositories.UserRepository
	Follows       repositories.FollowRepository
	Listings      repositories.ListingRepository
	Comments      repositories.CommentRepository
	Images        repositories.ImageRepository
	Notifications repositories.NotificationRepository
}

// NewRepositories migrates the relational schema and wires the PostgreSQL and MongoDB stores.
func NewRepositories(pgdb *gorm.DB, mongoDB *mongo.Database) (Repositories, error) {
	if err := repositories.AutoMigrate(pgdb); err != nil {
		return Repositories{}, err
	}
	logrus.Info("PostgreSQL auto-migrations completed")

	return Repositories{
		Users:         repositories.NewPostgresUserRepository(pgdb),
		Follows:       repositories.NewPostgresFollowRepository(pgdb),
		Listings:      repositories.NewPostgresListingRepository(pgdb),
		Comments:      repositories.NewPostgresCommentRepository(pgdb),
		Images:        repositories.NewMongoImageRepository(mongoDB),
		Notifications: repositories.NewPostgresNotificationRepository(pgdb),
	}, nil
}

// Options carries the auth settings for route setup.
type Options struct {
	JWTSecret string
	JWTTTL    time.Duration
	// FirebaseAuth is nil when Firebase is not configured.
	FirebaseAuth handlers.IDTokenVerifier
	// BcryptCost overrides the password hashing cost when non-zero.
	BcryptCost int
}

// SetupRoutes builds the services over repos and registers every route.
func SetupRoutes(e *echo.Echo, repos Repositories, opts Options) {
	// --- Services ---
	userService := services.NewUserService(repos.Users).WithImages(repos.Images)
	if opts.BcryptCost != 0 {
		userService.WithBcryptCost(opts.BcryptCost)
	}
	graph := services.NewSocialGraph(repos.Users, repos.Follows, repos.Listings, repos.Notifications)
	offerService := services.NewOfferService(repos.Listings, repos.Users, graph, repos.Notifications)
	imageService := services.NewImageService(repos.Images, repos.Users, graph)
	commentService := services.NewCommentService(repos.Comments, repos.Images, repos.Users, repos.Notifications)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(userService, opts.FirebaseAuth, opts.JWTSecret, opts.JWTTTL).RegisterAuthRoutes(authGroup)
	logrus.WithField("firebase", opts.FirebaseAuth != nil).Info("Auth routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(opts.JWTSecret))

	handlers.NewUserHandler(userService, graph).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(graph).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(imageService, userService).RegisterFeedRoutes(api)
	handlers.NewImageHandler(imageService).RegisterImageRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewListingHandler(offerService).RegisterListingRoutes(api)
	handlers.NewNotificationHandler(repos.Notifications, userService).RegisterNotificationRoutes(api)

	logrus.Info("All routes configured")
}
