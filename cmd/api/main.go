package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurora-society/aurora-backend/internal/config"
	"github.com/aurora-society/aurora-backend/internal/handler"
	"github.com/aurora-society/aurora-backend/internal/mailer"
	"github.com/aurora-society/aurora-backend/internal/migration"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/aurora-society/aurora-backend/internal/ws"
	pkgjwt "github.com/aurora-society/aurora-backend/pkg/jwt"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	pkgredis "github.com/aurora-society/aurora-backend/pkg/redis"
	pkgstorage "github.com/aurora-society/aurora-backend/pkg/storage"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Aurora Society API
// @version         1.0
// @description     Aurora Society - Private Membership Platform Backend
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		pkglogger.Warn("Migration warning: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Redis unavailable: %v (validation memo, drafts and cross-instance fan-out disabled)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	// Avatar storage (S3/R2 compatible)
	newAvatarStorage := func() (*pkgstorage.S3Client, error) {
		return pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.AvatarBucket,
			CDNURL:          cfg.Storage.CDNURL,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
	}
	var avatarStorage *pkgstorage.S3Client
	if cfg.Storage.AccessKeyID != "" {
		if avatarStorage, err = newAvatarStorage(); err != nil {
			pkglogger.Warn("Avatar storage unavailable: %v (uploads disabled)", err)
		}
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration)
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	tasks := outbox.New(256)
	tasks.Start()

	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	privateRepo := repository.NewPrivateProfileRepository(db)
	refRepo := repository.NewReferralRepository(db)
	linkRepo := repository.NewReferralLinkRepository(db)
	linkedRepo := repository.NewLinkedAccountRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	requestRepo := repository.NewConnectionRequestRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	codeRepo := repository.NewTwoFactorRepository(db)
	verifyRepo := repository.NewVerificationRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Services
	validationCache := service.NewRedisValidationCache(redisClient)
	referralSvc := service.NewReferralService(memberRepo, linkRepo, refRepo, validationCache, tasks, mail, cfg.Server.BaseURL)
	registrationSvc := service.NewRegistrationService(
		memberRepo, privateRepo, refRepo, linkRepo, linkedRepo, verifyRepo,
		referralSvc, service.NewRedisDraftStore(redisClient), avatarStorage, tasks, mail,
	)
	approvalSvc := service.NewApprovalService(refRepo, memberRepo)
	accessSvc := service.NewAccessService(friendRepo)
	connectionSvc := service.NewConnectionService(requestRepo, friendRepo, memberRepo)
	messagingSvc := service.NewMessagingService(convRepo, msgRepo, memberRepo, friendRepo, wsHub)
	twoFactorSvc := service.NewTwoFactorService(codeRepo, memberRepo, mail)
	authSvc := service.NewAuthService(memberRepo, refRepo, twoFactorSvc, jwtManager, tasks)
	memberSvc := service.NewMemberService(memberRepo, privateRepo, accessSvc, avatarStorage, newAvatarStorage)
	adminSvc := service.NewAdminService(
		memberRepo, privateRepo, refRepo, linkRepo, linkedRepo,
		friendRepo, requestRepo, convRepo, codeRepo, verifyRepo,
	)
	contactSvc := service.NewContactService(contactRepo, tasks, mail)
	verificationSvc := service.NewVerificationService(verifyRepo, memberRepo, tasks, mail)

	// Handlers
	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, approvalSvc),
		Registration: handler.NewRegistrationHandler(registrationSvc, referralSvc),
		Referral:     handler.NewReferralHandler(referralSvc, approvalSvc),
		Member:       handler.NewMemberHandler(memberSvc, accessSvc),
		Connection:   handler.NewConnectionHandler(connectionSvc),
		Message:      handler.NewMessageHandler(messagingSvc, wsHub),
		Admin:        handler.NewAdminHandler(adminSvc, approvalSvc, contactSvc),
		Contact:      handler.NewContactHandler(contactSvc),
		Verification: handler.NewVerificationHandler(verificationSvc, cfg.Server.BaseURL+"/login"),
	}

	router := handler.SetupRouter(cfg, jwtManager, handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		pkglogger.Info("Aurora backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Drain in-flight work before exit
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server shutdown: %v", err)
	}
	wsHub.Stop()
	tasks.Stop()
	pkglogger.Info("Bye")
}

// initDB opens the MySQL connection with sane pool settings
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
