package category_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcouto/centavo/internal/category"
	"github.com/pmcouto/centavo/internal/category/memory"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name    string
		params  category.CreateParams
		wantErr bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: category.CreateParams{OwnerID: uuid.New(), Name: "Groceries", Kind: "expense"},
		},
		{
			name:   "NoKind",
			params: category.CreateParams{OwnerID: uuid.New(), Name: "Misc"},
		},
		{
			name:   "NameTrimmed",
			params: category.CreateParams{OwnerID: uuid.New(), Name: "  Rent  "},
		},
		{
			name:    "EmptyName",
			params:  category.CreateParams{OwnerID: uuid.New(), Name: "   "},
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			params:  category.CreateParams{OwnerID: uuid.New(), Name: "Stuff", Kind: "transfer"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := category.NewService(memory.New())
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.NotContains(t, got.Name, " ")
		})
	}
}

func TestService_ListScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc := category.NewService(memory.New())

	mine := uuid.New()
	theirs := uuid.New()

	_, err := svc.Create(ctx, category.CreateParams{OwnerID: mine, Name: "Food"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, category.CreateParams{OwnerID: theirs, Name: "Travel"})
	require.NoError(t, err)

	got, err := svc.List(ctx, &mine)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].Name)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_GetNotFound(t *testing.T) {
	svc := category.NewService(memory.New())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, category.ErrNotFound)
}
