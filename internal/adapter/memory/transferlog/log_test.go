package transferlog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

func names(records []*domain.TransferRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FileName
	}
	return out
}

func TestListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository(3)

	empty, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.SaveTransfer(ctx, &domain.TransferRecord{FileName: fmt.Sprintf("f%d", i)}))
	}
	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f0"}, names(got))
}

func TestListRecentWrapsAround(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveTransfer(ctx, &domain.TransferRecord{FileName: fmt.Sprintf("f%d", i)}))
	}

	got, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"f4", "f3", "f2"}, names(got))

	got, err = repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"f4", "f3"}, names(got))
}
