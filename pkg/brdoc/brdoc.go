// Package brdoc utilidades para documentos fiscales brasileños (CNPJ y CPF).
package brdoc

import "fmt"

var (
	cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devuelve solo los dígitos de s ("12.345.678/0001-95" -> "12345678000195").
func Digits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCNPJ valida los dos dígitos verificadores (módulo 11) de un CNPJ con o sin máscara.
func ValidateCNPJ(cnpj string) error {
	d := Digits(cnpj)
	if len(d) != 14 {
		return fmt.Errorf("brdoc: CNPJ debe tener 14 dígitos, se encontraron %d", len(d))
	}
	if allSame(d) {
		return fmt.Errorf("brdoc: CNPJ inválido")
	}
	first := checkDigit(d[:12], cnpjWeights1[:])
	second := checkDigit(d[:12]+string(first), cnpjWeights2[:])
	if d[12] != first || d[13] != second {
		return fmt.Errorf("brdoc: dígitos verificadores del CNPJ inválidos: esperado %c%c, recibido %s", first, second, d[12:])
	}
	return nil
}

// ValidateCPF valida los dos dígitos verificadores de un CPF con o sin máscara.
func ValidateCPF(cpf string) error {
	d := Digits(cpf)
	if len(d) != 11 {
		return fmt.Errorf("brdoc: CPF debe tener 11 dígitos, se encontraron %d", len(d))
	}
	if allSame(d) {
		return fmt.Errorf("brdoc: CPF inválido")
	}
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	first := checkDigit(d[:9], w1)
	second := checkDigit(d[:9]+string(first), w2)
	if d[9] != first || d[10] != second {
		return fmt.Errorf("brdoc: dígitos verificadores del CPF inválidos")
	}
	return nil
}

// FormatCNPJ aplica la máscara 00.000.000/0000-00; si no hay 14 dígitos devuelve la entrada sin cambios.
func FormatCNPJ(cnpj string) string {
	d := Digits(cnpj)
	if len(d) != 14 {
		return cnpj
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

func checkDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + (11 - rem))
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
