package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name        string
		ownerID     uuid.UUID
		description string
		completed   bool
		wantErr     error
	}{
		{
			name:        "valid task",
			ownerID:     ownerID,
			description: "buy milk",
			completed:   false,
			wantErr:     nil,
		},
		{
			name:        "valid completed task",
			ownerID:     ownerID,
			description: "walk the dog",
			completed:   true,
			wantErr:     nil,
		},
		{
			name:        "empty description",
			ownerID:     ownerID,
			description: "",
			wantErr:     ErrEmptyDescription,
		},
		{
			name:        "missing owner",
			ownerID:     uuid.Nil,
			description: "buy milk",
			wantErr:     ErrEmptyOwnerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.ownerID, tt.description, tt.completed)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, task)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, tt.ownerID, task.OwnerID)
			assert.Equal(t, tt.description, task.Description)
			assert.Equal(t, tt.completed, task.Completed)
		})
	}
}
