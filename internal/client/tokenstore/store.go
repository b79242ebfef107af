// Package tokenstore persists the single session token across client runs.
package tokenstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cafecatalog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cafecatalog/internal/common"
)

// Store is the durable home of the session token.
//
// Load returns "" when no token is stored. Remove of a missing token is not
// an error.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// MetadataStore keeps the token under common.TokenStorageKey in a metadata
// repository.
type MetadataStore struct {
	repo metadata.Repository
}

func NewMetadataStore(repo metadata.Repository) *MetadataStore {
	return &MetadataStore{repo: repo}
}

func (s *MetadataStore) Load(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (s *MetadataStore) Save(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, common.TokenStorageKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *MetadataStore) Remove(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
