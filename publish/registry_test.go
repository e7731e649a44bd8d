package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRejectsDuplicateKey(t *testing.T) {
	registry := NewRegistry()
	assert.NoError(t, registry.acquire("octocat/mytool", "1.0.0"))
	assert.ErrorIs(t, registry.acquire("octocat/mytool", "1.0.0"), ErrPublishInFlight)

	// Different tag or repo is unaffected.
	assert.NoError(t, registry.acquire("octocat/mytool", "1.0.1"))
	assert.NoError(t, registry.acquire("octocat/other", "1.0.0"))

	registry.release("octocat/mytool", "1.0.0")
	assert.NoError(t, registry.acquire("octocat/mytool", "1.0.0"))
}
