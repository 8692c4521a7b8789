package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nav-gateway/pkg/jwt"
)

func TestGenerateYParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "event-bus", "nav-gateway", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	source, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "event-bus", source)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "event-bus", "nav-gateway", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "event-bus", "nav-gateway", -5)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "event-bus", "nav-gateway", 60)
	assert.Error(t, err)
}
