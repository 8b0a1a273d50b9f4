package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrProfileNotFound    = errors.New("perfil no encontrado")
	ErrUnsupportedFile    = errors.New("formato de archivo no soportado")
	ErrNoRecognizedHeader = errors.New("no se encontró una columna de nombre reconocida")
	ErrEmptyFile          = errors.New("el archivo no contiene filas")
	ErrUnreadableFile     = errors.New("el archivo está dañado o no corresponde a su extensión")
)
