package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente del producto")
	ErrVersionConflict      = errors.New("conflicto de versión al actualizar el producto")
)

// ForbiddenTransitionError indica que el rol no puede mover el producto del
// estado actual al solicitado. Lleva los tres datos para que el caller pueda
// explicar el rechazo sin consultar nada más.
type ForbiddenTransitionError struct {
	Role string
	From string
	To   string
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("el rol %s no puede cambiar el estado de %s a %s", e.Role, e.From, e.To)
}

// IsForbiddenTransition extrae el error tipado si err lo envuelve.
func IsForbiddenTransition(err error) (*ForbiddenTransitionError, bool) {
	var fte *ForbiddenTransitionError
	if errors.As(err, &fte) {
		return fte, true
	}
	return nil, false
}
