// Package services contains the use-case orchestrators. A service composes
// repositories, the mapper and the event publisher; it holds no storage or
// transport logic and never manages transactions itself.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/dto"
	"github.com/OddlyDoddly/oddly-infrastructures/application/mappers"
	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/utils"
)

// ExampleService orchestrates the example use cases. Mutating operations run
// inside the transaction scoped by the pipeline: the command repository is
// obtained from the request's unit of work, and published events are queued
// until that transaction commits.
type ExampleService struct {
	queryRepo ports.ExampleQueryRepository
	mapper    *mappers.ExampleMapper
	publisher ports.EventPublisher
	clock     utils.Clock
	ids       utils.IDGenerator
	logger    *zap.Logger
}

// NewExampleService creates the example service.
func NewExampleService(
	queryRepo ports.ExampleQueryRepository,
	mapper *mappers.ExampleMapper,
	publisher ports.EventPublisher,
	clock utils.Clock,
	ids utils.IDGenerator,
	logger *zap.Logger,
) *ExampleService {
	return &ExampleService{
		queryRepo: queryRepo,
		mapper:    mapper,
		publisher: publisher,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

// CreateExample creates a new example owned by the authenticated subject and
// returns the generated identity. An example.created event is queued for
// delivery after commit.
func (s *ExampleService) CreateExample(ctx context.Context, req dto.CreateExampleRequest, userID string) (string, error) {
	model, err := s.mapper.ToModelFromRequest(req, s.ids.NewID(), userID, s.clock.Now())
	if err != nil {
		return "", exampleErrors.New(CodeExampleValidationFailed, map[string]interface{}{
			"reason": err.Error(),
		})
	}

	repo, err := s.commandRepo(ctx)
	if err != nil {
		return "", err
	}

	id, err := repo.Save(ctx, model)
	if err != nil {
		return "", fmt.Errorf("saving example: %w", err)
	}

	correlationID := common.CorrelationID(ctx)
	event := events.NewExampleCreated(s.ids.NewID(), s.clock.Now(), correlationID, id, model.Name(), userID)
	if err := s.publisher.Publish(ctx, event, events.TopicExampleCreated); err != nil {
		return "", fmt.Errorf("publishing created event: %w", err)
	}

	s.logger.Info("example created",
		zap.String("example_id", id),
		zap.String("owner_id", userID),
		zap.String("correlation_id", correlationID),
	)
	return id, nil
}

// UpdateExample updates an existing example's details. Fails before any
// write when the subject does not own the example.
func (s *ExampleService) UpdateExample(ctx context.Context, id string, req dto.UpdateExampleRequest, userID string) error {
	repo, err := s.commandRepo(ctx)
	if err != nil {
		return err
	}

	model, err := s.loadOwned(ctx, repo, id, userID)
	if err != nil {
		return err
	}

	if err := s.mapper.UpdateModelFromRequest(model, req, s.clock.Now()); err != nil {
		return exampleErrors.New(CodeExampleValidationFailed, map[string]interface{}{
			"reason": err.Error(),
		})
	}

	if err := repo.Update(ctx, model); err != nil {
		return s.translateRepoError(err, id)
	}

	correlationID := common.CorrelationID(ctx)
	event := events.NewExampleUpdated(s.ids.NewID(), s.clock.Now(), correlationID, id, model.Name())
	if err := s.publisher.Publish(ctx, event, events.TopicExampleUpdated); err != nil {
		return fmt.Errorf("publishing updated event: %w", err)
	}
	return nil
}

// DeleteExample removes an example the subject owns.
func (s *ExampleService) DeleteExample(ctx context.Context, id, userID string) error {
	repo, err := s.commandRepo(ctx)
	if err != nil {
		return err
	}

	if _, err := s.loadOwned(ctx, repo, id, userID); err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	correlationID := common.CorrelationID(ctx)
	event := events.NewExampleDeleted(s.ids.NewID(), s.clock.Now(), correlationID, id)
	if err := s.publisher.Publish(ctx, event, events.TopicExampleDeleted); err != nil {
		return fmt.Errorf("publishing deleted event: %w", err)
	}
	return nil
}

// ActivateExample marks an owned example active. No event is emitted for
// activation state changes.
func (s *ExampleService) ActivateExample(ctx context.Context, id, userID string) error {
	return s.setActive(ctx, id, userID, true)
}

// DeactivateExample marks an owned example inactive.
func (s *ExampleService) DeactivateExample(ctx context.Context, id, userID string) error {
	return s.setActive(ctx, id, userID, false)
}

func (s *ExampleService) setActive(ctx context.Context, id, userID string, active bool) error {
	repo, err := s.commandRepo(ctx)
	if err != nil {
		return err
	}

	model, err := s.loadOwned(ctx, repo, id, userID)
	if err != nil {
		return err
	}

	if active {
		model.Activate(s.clock.Now())
	} else {
		model.Deactivate(s.clock.Now())
	}

	if err := repo.Update(ctx, model); err != nil {
		return s.translateRepoError(err, id)
	}
	return nil
}

// GetExample returns the read projection for an identity. Absence becomes a
// typed not-found error at this boundary; the query repository itself
// reports absence as a plain nil.
func (s *ExampleService) GetExample(ctx context.Context, id string) (dto.ExampleResponse, error) {
	entity, err := s.queryRepo.FindByID(ctx, id)
	if err != nil {
		return dto.ExampleResponse{}, fmt.Errorf("querying example: %w", err)
	}
	if entity == nil {
		return dto.ExampleResponse{}, exampleErrors.New(CodeExampleNotFound, map[string]interface{}{
			"id": id,
		})
	}
	return s.mapper.ToResponseFromReadEntity(entity), nil
}

// ListExamples returns a page of read projections.
func (s *ExampleService) ListExamples(ctx context.Context, filter ports.ExampleFilter, skip, take int) ([]dto.ExampleResponse, error) {
	items, err := s.queryRepo.ListByFilter(ctx, filter, skip, take)
	if err != nil {
		return nil, fmt.Errorf("listing examples: %w", err)
	}
	responses := make([]dto.ExampleResponse, 0, len(items))
	for _, entity := range items {
		responses = append(responses, s.mapper.ToResponseFromReadEntity(entity))
	}
	return responses, nil
}

// loadOwned loads a model for mutation and verifies the subject owns it.
func (s *ExampleService) loadOwned(ctx context.Context, repo ports.ExampleCommandRepository, id, userID string) (*models.Example, error) {
	model, err := repo.FindForCommand(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}
	if err := model.ValidateOwnership(userID); err != nil {
		return nil, exampleErrors.New(CodeExampleUnauthorized, map[string]interface{}{
			"id": id,
		})
	}
	return model, nil
}

func (s *ExampleService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return exampleErrors.New(CodeExampleNotFound, map[string]interface{}{"id": id})
	case errors.Is(err, ports.ErrVersionConflict):
		return exampleErrors.New(CodeExampleConflict, map[string]interface{}{"name": id})
	default:
		return err
	}
}

// commandRepo resolves the command repository bound to the request's
// transaction. Calling a mutating use case outside a transaction is a usage
// error in the pipeline wiring, not a caller fault.
func (s *ExampleService) commandRepo(ctx context.Context) (ports.ExampleCommandRepository, error) {
	uow, ok := ports.UnitOfWorkFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("mutating use case invoked without a unit of work: %w", ports.ErrNoActiveTransaction)
	}
	return uow.Examples(), nil
}
