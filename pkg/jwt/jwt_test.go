package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Honorarios-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
)

var testOpts = pkgjwt.VerifyOptions{Issuer: "https://auth.test/auth/v1", Audience: "authenticated"}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana@escritorio.com.br", testOpts, 60)
	require.NoError(t, err)

	userID, email, err := pkgjwt.Parse(testSecret, tok, testOpts)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, "ana@escritorio.com.br", email)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", testOpts, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok, testOpts)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", testOpts, 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok, testOpts)
	assert.Error(t, err)
}

func TestJWT_AudienceDistinta_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", pkgjwt.VerifyOptions{Audience: "service_role"}, 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok, pkgjwt.VerifyOptions{Audience: "authenticated"})
	assert.Error(t, err)
}

func TestJWT_SinSubject_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "", "", testOpts, 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok, testOpts)
	assert.Error(t, err)
}
