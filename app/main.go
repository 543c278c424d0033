package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/snapnutrient/snapnutrient/internal/ai"
	"github.com/snapnutrient/snapnutrient/internal/repository/dynamo"
	redisCache "github.com/snapnutrient/snapnutrient/internal/repository/redis"
	s3repo "github.com/snapnutrient/snapnutrient/internal/repository/s3"
	"github.com/snapnutrient/snapnutrient/internal/rest"
	"github.com/snapnutrient/snapnutrient/internal/rest/middleware"
	"github.com/snapnutrient/snapnutrient/internal/usecase/meal"
	"github.com/snapnutrient/snapnutrient/internal/usecase/nutrition"
	"github.com/snapnutrient/snapnutrient/internal/usecase/post"
	"github.com/snapnutrient/snapnutrient/internal/usecase/profile"
)

const (
	defaultTimeout   = 30
	defaultAddress   = ":9090"
	defaultCacheDB   = 0
	defaultFeedIndex = "feed_type-posted_time-index"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, relying on environment")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// prepare AWS clients
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal("failed to load AWS config: ", err)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := awss3.NewFromConfig(awsCfg)
	presignClient := awss3.NewPresignClient(s3Client)

	postsTable := getenv("POSTS_TABLE", "posts")
	mealsTable := getenv("MEALS_TABLE", "meals")
	usersTable := getenv("USERS_TABLE", "users")
	feedIndex := getenv("FEED_INDEX", defaultFeedIndex)
	bucket := os.Getenv("MEDIA_BUCKET")
	if bucket == "" {
		log.Fatal("MEDIA_BUCKET is required")
	}

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			log.Println("got error when closing the cache connection: ", err)
		}
	}()

	if _, err = client.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to open connection to cache: ", err)
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	postRepo := dynamo.NewPostRepository(dynamo.NewStore(dynamoClient, postsTable, feedIndex))
	mealRepo := dynamo.NewMealRepository(dynamo.NewStore(dynamoClient, mealsTable, ""))
	userRepo := dynamo.NewUserRepository(dynamo.NewStore(dynamoClient, usersTable, ""))
	blobs := s3repo.NewBlobURLIssuer(presignClient, bucket)
	hydration := redisCache.NewHydrationCache(client)

	assistant := ai.NewAssistant(ai.Config{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		AssistantID: os.Getenv("OPENAI_ASSISTANT_ID"),
	})

	// Build service Layer
	postSvc := post.NewService(postRepo, userRepo, blobs, hydration, hydration)
	mealSvc := meal.NewService(mealRepo)
	profileSvc := profile.NewService(userRepo, blobs, hydration)
	nutritionSvc := nutrition.NewService(assistant)

	postHandler := rest.NewPostHandler(postSvc)
	mealHandler := rest.NewMealHandler(mealSvc)
	profileHandler := rest.NewProfileHandler(profileSvc)
	mediaHandler := rest.NewMediaHandler(blobs)
	nutritionHandler := rest.NewNutritionHandler(nutritionSvc)

	// Register routes
	route.GET("/posts", middleware.Identity(), postHandler.Fetch)
	route.GET("/posts/by-id", middleware.Identity(), postHandler.GetByID)

	authorized := route.Group("/")
	authorized.Use(middleware.RequireIdentity())
	{
		authorized.POST("/posts", postHandler.Store)
		authorized.POST("/posts/like", postHandler.Like)
		authorized.POST("/posts/comment", postHandler.Comment)

		authorized.POST("/media/upload-url", mediaHandler.UploadURL)
		authorized.POST("/media/download-urls", mediaHandler.DownloadURLs)

		authorized.POST("/meals", mealHandler.Store)
		authorized.GET("/meals", mealHandler.Fetch)
		authorized.PUT("/meals", mealHandler.Update)
		authorized.DELETE("/meals", mealHandler.Delete)

		authorized.GET("/profile", profileHandler.Get)
		authorized.POST("/profile", profileHandler.Register)
		authorized.PUT("/profile", profileHandler.Update)

		authorized.POST("/nutrition/analyze-image", nutritionHandler.AnalyzeImage)
		authorized.POST("/nutrition/recommendations", nutritionHandler.Recommend)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Printf("%s not set, using default %q", key, fallback)
		return fallback
	}
	return v
}
