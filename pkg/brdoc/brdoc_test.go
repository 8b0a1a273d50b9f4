package brdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Honorarios-api/pkg/brdoc"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", brdoc.Digits("12.345.678/0001-90"))
	assert.Equal(t, "", brdoc.Digits(" - "))
}

func TestValidateCNPJ(t *testing.T) {
	assert.NoError(t, brdoc.ValidateCNPJ("12.345.678/0001-95"))
	assert.NoError(t, brdoc.ValidateCNPJ("12345678000195"))
	assert.Error(t, brdoc.ValidateCNPJ("12.345.678/0001-90"), "dígitos verificadores incorrectos")
	assert.Error(t, brdoc.ValidateCNPJ("11.111.111/1111-11"))
	assert.Error(t, brdoc.ValidateCNPJ("123"))
}

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, brdoc.ValidateCPF("529.982.247-25"))
	assert.Error(t, brdoc.ValidateCPF("529.982.247-26"))
	assert.Error(t, brdoc.ValidateCPF("000.000.000-00"))
}

func TestFormatCNPJ(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-95", brdoc.FormatCNPJ("12345678000195"))
	assert.Equal(t, "abc", brdoc.FormatCNPJ("abc"))
}
