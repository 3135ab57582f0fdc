package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrContention         = errors.New("contención: reintentos agotados por escrituras concurrentes")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")

	// ErrConflict conflicto de escritura transitorio (versión cambiada, serialización);
	// el ledger lo reintenta y nunca sale hacia el llamador.
	ErrConflict = errors.New("conflicto con el estado actual")

	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInvalidInput alias histórico de ErrValidation.
	ErrInvalidInput = ErrValidation
)

// Error lleva la categoría (uno de los sentinels de arriba) y un mensaje para el usuario.
// errors.Is(err, domain.ErrInsufficientStock) funciona sobre la categoría.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf construye un *Error con la categoría y el mensaje dados.
func Errorf(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Message extrae el mensaje legible de err; si no es un *Error devuelve err.Error().
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
