package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

// QueryRepository reads the denormalized view table. The view is eventually
// consistent with the command table; an external projector maintains it.
// Reads never join the mutating transaction.
type QueryRepository struct {
	client    *awsdynamodb.Client
	viewTable string
}

// NewQueryRepository creates a query repository over the view table.
func NewQueryRepository(client *awsdynamodb.Client, viewTable string) *QueryRepository {
	return &QueryRepository{client: client, viewTable: viewTable}
}

// FindByID returns the read projection or nil when absent.
func (r *QueryRepository) FindByID(ctx context.Context, id string) (*entities.ExampleReadEntity, error) {
	output, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.viewTable),
		Key:       exampleKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("querying example view %s: %w", id, err)
	}
	if output.Item == nil {
		return nil, nil
	}

	var entity entities.ExampleReadEntity
	if err := attributevalue.UnmarshalMap(output.Item, &entity); err != nil {
		return nil, fmt.Errorf("unmarshaling example view %s: %w", id, err)
	}
	return &entity, nil
}

// ListByFilter scans the view with a server-side filter, orders the result
// stably by creation time then identity, and slices skip/take from it.
func (r *QueryRepository) ListByFilter(ctx context.Context, filter ports.ExampleFilter, skip, take int) ([]*entities.ExampleReadEntity, error) {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}

	input := &awsdynamodb.ScanInput{
		TableName: aws.String(r.viewTable),
	}

	if cond, ok := buildFilter(filter); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("building filter expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	items := make([]*entities.ExampleReadEntity, 0)
	paginator := awsdynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning example view: %w", err)
		}
		var batch []*entities.ExampleReadEntity
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshaling example view page: %w", err)
		}
		items = append(items, batch...)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	if skip >= len(items) {
		return []*entities.ExampleReadEntity{}, nil
	}
	end := skip + take
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end], nil
}

func buildFilter(filter ports.ExampleFilter) (expression.ConditionBuilder, bool) {
	var cond expression.ConditionBuilder
	has := false

	if filter.OwnerID != "" {
		cond = expression.Name("owner_id").Equal(expression.Value(filter.OwnerID))
		has = true
	}
	if filter.ActiveOnly {
		active := expression.Name("is_active").Equal(expression.Value(true))
		if has {
			cond = cond.And(active)
		} else {
			cond = active
			has = true
		}
	}
	return cond, has
}
