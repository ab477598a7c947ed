package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	queries *generated.Queries
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(db generated.DBTX) *MemberRepository {
	return &MemberRepository{queries: generated.New(db)}
}

// GetByID returns a member.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row, err := r.queries.GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &domain.Member{ID: row.ID, Name: row.Name}, nil
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// GetByName returns a category by its unique name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return &domain.Category{ID: row.ID, Name: row.Name}, nil
}
