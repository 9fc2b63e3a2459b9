package database

import (
	"testing"

	modelspkg "quorum/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesReply(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Reply); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Reply")
}
