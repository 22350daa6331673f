package usecase

import (
	"context"

	"github.com/hewad/sarrafbook/internal/domain"
)

// DirectoryUseCase resolves an entity identifier to its category.
type DirectoryUseCase struct {
	entityRepo EntityRepository
}

// NewDirectoryUseCase creates a new DirectoryUseCase.
func NewDirectoryUseCase(entityRepo EntityRepository) *DirectoryUseCase {
	return &DirectoryUseCase{entityRepo: entityRepo}
}

// ResolveCategory resolves id to its category. The owner sentinel is matched
// without I/O; other identifiers are probed against the stored partitions in
// domain.PartitionProbeOrder, first match wins. A miss in every partition
// returns domain.ErrEntityNotFound without leaking which partitions were
// tried.
func (uc *DirectoryUseCase) ResolveCategory(ctx context.Context, id string) (domain.Category, error) {
	if id == domain.OwnerID {
		return domain.CategoryOwner, nil
	}

	for _, category := range domain.PartitionProbeOrder {
		exists, err := uc.entityRepo.ExistsInCategory(ctx, id, category)
		if err != nil {
			return "", err
		}

		if exists {
			return category, nil
		}
	}

	return "", domain.ErrEntityNotFound
}
