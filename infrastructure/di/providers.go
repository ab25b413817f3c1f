// Package di wires the application together with explicit provider
// functions feeding a Container struct.
package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/mappers"
	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/application/services"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/config"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/messaging"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/messaging/eventbridge"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/messaging/inmemory"
	dynamo "github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/dynamodb"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/memory"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/utils"
)

// Container holds all application dependencies.
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	EventBus       *inmemory.EventBus
	Publisher      ports.EventPublisher
	QueryRepo      ports.ExampleQueryRepository
	UoWFactory     ports.UnitOfWorkFactory
	ExampleService *services.ExampleService
	Ownership      ports.OwnershipVerifier
	ErrorHandler   *errs.ErrorHandler
}

// InitializeContainer creates a fully wired container.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	// The in-memory bus always exists so local subscribers can register;
	// in production the direct publisher fans out to EventBridge as well.
	bus := inmemory.NewEventBus(logger)

	var direct ports.EventPublisher = bus
	if cfg.MessagingBackend == "eventbridge" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		direct = newFanoutPublisher(bus,
			eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, "oddly-infrastructures"),
		)
	}
	publisher := messaging.NewTransactionalPublisher(direct)

	var (
		queryRepo  ports.ExampleQueryRepository
		uowFactory ports.UnitOfWorkFactory
	)
	switch cfg.PersistenceBackend {
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		queryRepo = dynamo.NewQueryRepository(client, cfg.ViewTable)
		uowFactory = dynamo.NewUnitOfWorkFactory(client, cfg.CommandTable, direct, logger)
	default:
		store := memory.NewStore()
		queryRepo = memory.NewQueryRepository(store)
		uowFactory = memory.NewUnitOfWorkFactory(store, direct, logger)
	}

	exampleService := services.NewExampleService(
		queryRepo,
		mappers.NewExampleMapper(),
		publisher,
		utils.SystemClock{},
		utils.UUIDGenerator{},
		logger,
	)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		EventBus:       bus,
		Publisher:      publisher,
		QueryRepo:      queryRepo,
		UoWFactory:     uowFactory,
		ExampleService: exampleService,
		Ownership:      services.NewOwnershipService(queryRepo),
		ErrorHandler:   errs.NewErrorHandler(logger),
	}, nil
}

// ProvideLogger creates a new logger instance.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
