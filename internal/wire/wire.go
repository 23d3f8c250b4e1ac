package wire

import (
	"LittleStories/internal/api"
	"LittleStories/internal/api/config"
	"LittleStories/internal/api/handler"
	"LittleStories/internal/job"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/cron"
	"LittleStories/internal/pkg/es"
	"LittleStories/internal/pkg/kafka"
	"LittleStories/internal/pkg/mail"
	"LittleStories/internal/pkg/ratelimit"
	"LittleStories/internal/pkg/redis"
	"LittleStories/internal/repository"
	"LittleStories/internal/service"
	log "log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Publisher    kafka.Publisher
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

// BuildApplication esClient 为 nil 时不启用检索索引，消费者与重建任务也不会创建
func BuildApplication(db *gorm.DB, esClient *elasticsearch.TypedClient, cfg *config.Config) (*ApplicationContainer, error) {
	accountRepo := repository.NewAccountRepo(db)
	userRepo := repository.NewUserRepo(db)
	storyRepo := repository.NewStoryRepo(db)
	ratingRepo := repository.NewRatingRepo(db)

	var storyESRepo es.StoryRepo
	if esClient != nil {
		storyESRepo = es.NewStoryRepo(esClient, cfg.Elastic.Indices.StoryIndex)
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	signInLimiter, err := ratelimit.NewFixedWindowLimiter(redis.GetRdbClient(), consts.RateLimitSignIn, cfg.Limits.SignInPerMinute, time.Minute)
	if err != nil {
		return nil, err
	}
	claimLimiter, err := ratelimit.NewFixedWindowLimiter(redis.GetRdbClient(), consts.RateLimitClaim, cfg.Limits.ClaimPerMinute, time.Minute)
	if err != nil {
		return nil, err
	}

	cache := service.NewStoryCache(
		time.Duration(cfg.Cache.ListTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.DetailTTLSeconds)*time.Second,
	)

	authService := service.NewAuthService(accountRepo, userRepo, mail.NewMailer(cfg.Mail), signInLimiter)
	storyService := service.NewStoryService(storyRepo, userRepo, ratingRepo, storyESRepo, cache, publisher)
	claimService := service.NewClaimService(storyRepo, claimLimiter, cache, publisher)
	ratingService := service.NewRatingService(storyRepo, ratingRepo, cache, publisher)
	profileService := service.NewProfileService(userRepo, storyRepo, cache)

	handlers := &api.HandlersGroup{
		AuthHandler:    handler.NewAuthHandler(authService),
		StoryHandler:   handler.NewStoryHandler(storyService, claimService),
		RatingHandler:  handler.NewRatingHandler(ratingService),
		ProfileHandler: handler.NewProfileHandler(profileService),
	}

	router := api.SetupRouter(handlers, cfg.Server.SiteURL)

	var reindexJob *job.StoryReindexJob
	if storyESRepo != nil {
		reindexJob = job.NewStoryReindexJob(storyRepo, storyESRepo)
	}
	cronMgr := cron.NewCronManager(cfg.Cron.StoryReindex, reindexJob)

	var kafkaMgr *kafka.ConsumerManager
	if storyESRepo != nil && len(cfg.Kafka.Brokers) > 0 {
		kafkaMgr, err = kafka.NewConsumerManager(cfg, storyRepo, storyESRepo)
		if err != nil {
			_ = publisher.Close()
			return nil, err
		}
	} else {
		log.Info("Story index consumer disabled", "search", storyESRepo != nil, "brokers", len(cfg.Kafka.Brokers))
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		Publisher:    publisher,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
