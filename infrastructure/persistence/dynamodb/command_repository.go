package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/OddlyDoddly/oddly-infrastructures/application/mappers"
	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

var mapper = mappers.NewExampleMapper()

// CommandRepository stages write-side operations on the unit of work as
// conditional transact items. The version read when a model was loaded is
// the condition for its update, so a stale write fails the whole commit.
type CommandRepository struct {
	uow *UnitOfWork
}

// Save stages a conditional put that requires the identity to be new.
func (r *CommandRepository) Save(ctx context.Context, model *models.Example) (string, error) {
	entity := mapper.ToWriteEntity(model)
	entity.Version = 1

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return "", fmt.Errorf("marshaling example %s: %w", entity.ID, err)
	}

	err = r.uow.addItem(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.uow.table),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(pk)"),
		},
	})
	if err != nil {
		return "", err
	}
	return entity.ID, nil
}

// Update stages a conditional put guarded by the version observed when the
// model was loaded in this transaction.
func (r *CommandRepository) Update(ctx context.Context, model *models.Example) error {
	if !r.uow.active {
		return ports.ErrNoActiveTransaction
	}

	version, ok := r.uow.versions[model.ID()]
	if !ok {
		current, err := r.load(ctx, model.ID())
		if err != nil {
			return err
		}
		version = current.Version
	}

	entity := mapper.ToWriteEntity(model)
	entity.Version = version + 1

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("marshaling example %s: %w", entity.ID, err)
	}

	expected, err := attributevalue.Marshal(version)
	if err != nil {
		return fmt.Errorf("marshaling version: %w", err)
	}

	return r.uow.addItem(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.uow.table),
			Item:                item,
			ConditionExpression: aws.String("version = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": expected,
			},
		},
	})
}

// Delete stages a conditional delete that requires the identity to exist.
func (r *CommandRepository) Delete(ctx context.Context, id string) error {
	if !r.uow.active {
		return ports.ErrNoActiveTransaction
	}
	if _, err := r.load(ctx, id); err != nil {
		return err
	}

	return r.uow.addItem(types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:           aws.String(r.uow.table),
			Key:                 exampleKey(id),
			ConditionExpression: aws.String("attribute_exists(pk)"),
		},
	})
}

// Exists reports whether the identity is present in the command table.
func (r *CommandRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !r.uow.active {
		return false, ports.ErrNoActiveTransaction
	}
	_, err := r.load(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindForCommand loads a model with a strongly consistent read and records
// its version as the precondition for a later update in this transaction.
func (r *CommandRepository) FindForCommand(ctx context.Context, id string) (*models.Example, error) {
	if !r.uow.active {
		return nil, ports.ErrNoActiveTransaction
	}
	entity, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	r.uow.versions[id] = entity.Version
	return mapper.ToModelFromWriteEntity(entity), nil
}

func (r *CommandRepository) load(ctx context.Context, id string) (*entities.ExampleWriteEntity, error) {
	output, err := r.uow.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName:      aws.String(r.uow.table),
		Key:            exampleKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("loading example %s: %w", id, err)
	}
	if output.Item == nil {
		return nil, ports.ErrNotFound
	}

	var entity entities.ExampleWriteEntity
	if err := attributevalue.UnmarshalMap(output.Item, &entity); err != nil {
		return nil, fmt.Errorf("unmarshaling example %s: %w", id, err)
	}
	return &entity, nil
}

func exampleKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: id},
	}
}
