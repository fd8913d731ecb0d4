package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"viewsync/internal/adapter/api/handler"
	"viewsync/internal/adapter/api/router"
	"viewsync/internal/adapter/repository"
	"viewsync/internal/infrastructure/firebase"
	"viewsync/internal/infrastructure/storage"
	"viewsync/internal/usecase"
	"viewsync/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	messagingClient, err := firebase.NewMessagingClient(ctx, firebaseApp)
	if err != nil {
		log.Fatalf("Failed to initialize FCM: %v", err)
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatViewRepo := repository.NewFirestoreChatViewRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	cleanupRepo := repository.NewFirestoreCleanupRepository(firestoreClient, cfg.DeleteBatchSize)

	chatSyncUseCase := usecase.NewChatSyncUseCase(chatViewRepo, userRepo, messagingClient)
	ratingSyncUseCase := usecase.NewRatingSyncUseCase(reviewRepo)
	cleanupUseCase := usecase.NewCleanupUseCase(userRepo, chatViewRepo, cleanupRepo, storageClient)

	eventHandler := handler.NewEventHandler(chatSyncUseCase, ratingSyncUseCase, cleanupUseCase)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, eventHandler)

	log.Printf("Starting sync worker on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
