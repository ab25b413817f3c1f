package services

import (
	"context"
	"fmt"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
)

// OwnershipService proves resource ownership for the pipeline's ownership
// stage. It reads the query side only, so verification never joins the
// mutating transaction. An absent resource cannot prove ownership and the
// check fails closed.
type OwnershipService struct {
	queryRepo ports.ExampleQueryRepository
}

// NewOwnershipService creates an ownership verifier backed by the read side.
func NewOwnershipService(queryRepo ports.ExampleQueryRepository) *OwnershipService {
	return &OwnershipService{queryRepo: queryRepo}
}

// Verify reports whether userID owns resourceID.
func (s *OwnershipService) Verify(ctx context.Context, userID, resourceID string) (bool, error) {
	entity, err := s.queryRepo.FindByID(ctx, resourceID)
	if err != nil {
		return false, fmt.Errorf("verifying ownership: %w", err)
	}
	if entity == nil {
		return false, nil
	}
	return entity.OwnerID == userID, nil
}
