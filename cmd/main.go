package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Tabiji-App/internal/domain/service"
	"Tabiji-App/internal/handler"
	"Tabiji-App/internal/infrastructure/auth"
	fsinfra "Tabiji-App/internal/infrastructure/firestore"
	"Tabiji-App/internal/infrastructure/maps"
	"Tabiji-App/internal/repository"
	"Tabiji-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	naverClientID := os.Getenv("NAVER_CLIENT_ID")
	naverClientSecret := os.Getenv("NAVER_CLIENT_SECRET")

	if projectID == "" || naverClientID == "" || naverClientSecret == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数:")
		fmt.Println("  - FIREBASE_PROJECT_ID")
		fmt.Println("  - NAVER_CLIENT_ID")
		fmt.Println("  - NAVER_CLIENT_SECRET")
		fmt.Println("任意の環境変数:")
		fmt.Println("  - GOOGLE_MAPS_API_KEY (MAP_PROVIDER=googleの場合に必須)")
		fmt.Println("  - MAP_PROVIDER (naver / google)")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	ctx := context.Background()

	fmt.Println("Initializing Firestore client...")
	firestoreClient, err := fsinfra.NewFirestoreClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
	}
	defer firestoreClient.Close()

	fmt.Println("Initializing Firebase Auth client...")
	firebaseAuth, err := auth.NewFirebaseAuth(ctx, projectID)
	if err != nil {
		log.Fatalf("Firebase Authクライアント初期化失敗: %v", err)
	}

	// 経路検索プロバイダの選択はデプロイ設定（呼び出し側では分岐しない）
	directionsProvider, err := maps.NewDirectionsProvider(maps.ProviderConfig{
		Provider:          os.Getenv("MAP_PROVIDER"),
		NaverClientID:     naverClientID,
		NaverClientSecret: naverClientSecret,
		GoogleAPIKey:      os.Getenv("GOOGLE_MAPS_API_KEY"),
	})
	if err != nil {
		log.Fatalf("経路検索プロバイダ初期化失敗: %v", err)
	}

	naverClient := maps.NewNaverClient(naverClientID, naverClientSecret)

	tripsRepo := repository.NewFirestoreTripsRepository(firestoreClient.GetClient())
	// 外部APIの経由地最適化を優先し、利用できなければ最近傍法に切り替える
	optimizer := service.NewFallbackOptimizer(
		service.NewDirectionsOptimizer(directionsProvider),
		service.NewNearestNeighborOptimizer(),
	)
	durationService := service.NewRouteDurationService(directionsProvider)
	placeUseCase := usecase.NewPlaceUseCase(naverClient)

	tripHandler := handler.NewTripHandler(tripsRepo)
	routeHandler := handler.NewRouteHandler(optimizer, durationService)
	placeHandler := handler.NewPlaceHandler(placeUseCase)
	proxyHandler := handler.NewNaverProxyHandler(naverClient)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "Tabiji-App"})
	})

	// Naverプロキシ（認証ヘッダはサーバー側で付与）
	r.GET("/api/naver/directions5", proxyHandler.GetDirections)
	r.GET("/api/naver/geocode", proxyHandler.GetGeocode)
	r.GET("/api/naver/search", proxyHandler.GetSearch)

	// 場所検索・経路
	r.GET("/api/places/search", placeHandler.GetSearch)
	r.GET("/api/places/geocode", placeHandler.GetGeocode)
	r.POST("/api/routes/optimize", routeHandler.PostOptimize)
	r.POST("/api/routes/durations", routeHandler.PostDurations)

	// 公開計画の一覧は認証なしで閲覧可能
	r.GET("/api/trips/public", tripHandler.ListPublicTrips)

	// 旅行計画CRUD（要認証）
	authorized := r.Group("/api", firebaseAuth.Middleware())
	{
		authorized.POST("/trips", tripHandler.PostTrip)
		authorized.GET("/trips", tripHandler.ListTrips)
		authorized.GET("/trips/shared", tripHandler.ListSharedTrips)
		authorized.GET("/trips/:id", tripHandler.GetTrip)
		authorized.PUT("/trips/:id", tripHandler.PutTrip)
		authorized.DELETE("/trips/:id", tripHandler.DeleteTrip)
		authorized.PUT("/trips/:id/share", tripHandler.PutTripShare)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Tabiji-App server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("サーバー起動失敗: %v", err)
	}
}
