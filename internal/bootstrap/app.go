package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfqa/internal/ai"
	appsvc "pdfqa/internal/app"
	"pdfqa/internal/cache"
	"pdfqa/internal/config"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/intake"
	"pdfqa/internal/pkg/logger"
	"pdfqa/internal/pkg/pdfinfo"
	minioArchive "pdfqa/internal/platform/minio"
	mongoClient "pdfqa/internal/platform/mongodb"
	mysqlClient "pdfqa/internal/platform/mysql"
	rabbitmqClient "pdfqa/internal/platform/rabbitmq"
	redisClient "pdfqa/internal/platform/redis"
	"pdfqa/internal/repository"
	"pdfqa/internal/transport/http/handler"
	"pdfqa/internal/worker"
)

var ErrUnsupportedDatabase = errors.New("unsupported database uri scheme")

const eagerAssistantTimeout = 30 * time.Second

type App struct {
	Config     *config.Config
	Assistants *appsvc.AssistantRegistry
	Documents  *appsvc.DocumentService
	Questions  *appsvc.QuestionService
	Intake     *intake.Store
	Checks     []handler.DependencyCheck

	StartedAt time.Time

	closers []func() error
}

type recordStore struct {
	documents repository.DocumentRepository
	questions repository.QuestionLogRepository
	ping      func(ctx context.Context) error
	close     func() error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.App.LogLevel)

	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.warmUp(ctx)
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config

	store, err := openRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, store.close)
	a.Checks = append(a.Checks, handler.DependencyCheck{Name: "database", Ping: store.ping})

	intakeStore, err := intake.NewStore(cfg.Upload.Dir, cfg.Upload.KeepTempFiles)
	if err != nil {
		return err
	}
	a.Intake = intakeStore

	retrieval := ai.NewOpenAIRetrieval(ai.OpenAIConfig{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		RequestTimeout: cfg.OpenAIRequestTimeout(),
	})
	poller := appsvc.NewPoller(cfg.PollInterval(), cfg.Poll.MaxAttempts)

	docOpts := []appsvc.DocumentServiceOption{
		appsvc.WithFileAttachment(cfg.OpenAI.AttachFiles),
		appsvc.WithPageCounter(pdfinfo.PageCount),
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rdb.Close)
		documentCache := cache.NewDocumentCache(rdb, cfg.DocumentsCacheTTL())
		docOpts = append(docOpts, appsvc.WithDocumentCache(documentCache))
		a.Checks = append(a.Checks, handler.DependencyCheck{Name: "redis", Ping: documentCache.Ping})
	}

	if cfg.Upload.ArchiveUploads && cfg.MinIO.Endpoint != "" {
		archive, err := minioArchive.New(ctx, minioArchive.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return err
		}
		docOpts = append(docOpts, appsvc.WithDocumentArchive(archive))
	}

	var publisher appsvc.QuestionLogPublisher = appsvc.NewRepositoryPublisher(store.questions)
	if cfg.RabbitMQ.URL != "" {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, mqConn.Close)

		questionWorker := worker.NewQuestionLogWorker(mqConn, store.questions, cfg.RabbitMQ.QuestionLogQueue)
		if err := questionWorker.Start(ctx); err != nil {
			return fmt.Errorf("start question log worker failed: %w", err)
		}
		a.closers = append(a.closers, func() error {
			questionWorker.Close()
			return nil
		})
		publisher = rabbitmqClient.NewQuestionLogPublisher(mqConn, cfg.RabbitMQ.QuestionLogQueue)
		a.Checks = append(a.Checks, handler.DependencyCheck{Name: "rabbitmq", Ping: connectionCheck(mqConn)})
	}

	a.Assistants = appsvc.NewAssistantRegistry(retrieval, ai.AssistantSpec{
		Name:         cfg.OpenAI.AssistantName,
		Instructions: cfg.OpenAI.AssistantInstructions,
		Model:        cfg.OpenAI.Model,
	})
	a.Documents = appsvc.NewDocumentService(retrieval, store.documents, poller, docOpts...)
	a.Questions = appsvc.NewQuestionService(retrieval, a.Assistants, poller, publisher, store.questions)
	return nil
}

// warmUp creates the assistant before traffic arrives. Failure is logged and
// the first question retries.
func (a *App) warmUp(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, eagerAssistantTimeout)
	defer cancel()
	if _, err := a.Assistants.Ensure(warmCtx); err != nil {
		logger.L.Warnw("eager assistant initialization failed", "error", err)
	}
}

func openRecordStore(ctx context.Context, cfg *config.Config) (*recordStore, error) {
	uri := cfg.Database.URI
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		client, err := mongoClient.New(ctx, uri, cfg.DatabaseConnectTimeout())
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Database.Name)
		questions, err := repository.NewMongoQuestionLogRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		documents := repository.NewMongoDocumentRepository(db)
		return &recordStore{
			documents: documents,
			questions: questions,
			ping:      documents.Ping,
			close:     func() error { return client.Disconnect(context.Background()) },
		}, nil

	case strings.HasPrefix(uri, "mysql://"):
		db, err := mysqlClient.New(ctx, mysqlClient.DSNFromURI(uri))
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get mysql sql db failed: %w", err)
		}
		if err := db.AutoMigrate(&model.UploadedDocument{}, &model.QuestionLog{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		documents := repository.NewGormDocumentRepository(db)
		return &recordStore{
			documents: documents,
			questions: repository.NewGormQuestionLogRepository(db),
			ping:      documents.Ping,
			close:     sqlDB.Close,
		}, nil

	case strings.HasPrefix(uri, "memory://"):
		mem := repository.NewMemoryStore()
		return &recordStore{
			documents: mem.Documents(),
			questions: mem.QuestionLogs(),
			ping:      mem.Ping,
			close:     func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, redactURI(uri))
}

func connectionCheck(conn *amqp.Connection) func(context.Context) error {
	return func(context.Context) error {
		if conn == nil || conn.IsClosed() {
			return errors.New("connection closed")
		}
		return nil
	}
}

// redactURI keeps only the scheme so credentials never reach the logs.
func redactURI(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i+3] + "..."
	}
	return "..."
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var closeErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			closeErr = err
		}
	}
	a.closers = nil
	return closeErr
}
