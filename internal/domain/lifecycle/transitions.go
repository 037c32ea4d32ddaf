// Package lifecycle contiene la tabla de transiciones del ciclo de vida del
// producto: qué rol puede mover un producto de un estado a otro. Es lógica
// pura de dominio, sin estado ni efectos.
package lifecycle

import "github.com/tu-usuario/cadena-pro/internal/domain/entity"

// transitions es la matriz de autorización: rol → estado actual → estados
// siguientes permitidos. Cualquier tripleta fuera de la tabla se rechaza
// (reject-by-default, incluidos roles o estados desconocidos).
var transitions = map[string]map[entity.ProductStatus][]entity.ProductStatus{
	entity.RoleSupplier: {
		entity.StatusManufactured: {entity.StatusInSupply},
		entity.StatusQualityCheck: {entity.StatusInSupply},
	},
	entity.RoleQualityInspector: {
		entity.StatusQualityCheck: {entity.StatusManufactured, entity.StatusInSupply},
	},
	entity.RoleDistributor: {
		entity.StatusInSupply:       {entity.StatusInDistribution},
		entity.StatusInDistribution: {entity.StatusDelivered},
	},
	entity.RoleAdmin: {
		entity.StatusManufactured:   {entity.StatusInSupply},
		entity.StatusQualityCheck:   {entity.StatusManufactured, entity.StatusInSupply},
		entity.StatusInSupply:       {entity.StatusInDistribution},
		entity.StatusInDistribution: {entity.StatusDelivered},
	},
}

// AllowedNext devuelve los estados a los que role puede mover un producto que
// está en from. Slice vacío si no tiene ninguno.
func AllowedNext(role string, from entity.ProductStatus) []entity.ProductStatus {
	byStatus, ok := transitions[role]
	if !ok {
		return nil
	}
	next := byStatus[from]
	out := make([]entity.ProductStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition decide si role puede mover un producto de from a to.
// Determinista: mismas entradas, mismo resultado.
func CanTransition(role string, from, to entity.ProductStatus) bool {
	byStatus, ok := transitions[role]
	if !ok {
		return false
	}
	for _, allowed := range byStatus[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreatesLedgerEntry indica si la transición hacia status debe producir una
// entrada en el ledger de transacciones.
func CreatesLedgerEntry(status entity.ProductStatus) bool {
	switch status {
	case entity.StatusInSupply, entity.StatusInDistribution, entity.StatusDelivered:
		return true
	}
	return false
}

// TransfersOwnership indica si la transición hacia status reasigna el dueño
// del producto al actor (la propiedad pasa a quien lo mueve a distribución).
func TransfersOwnership(status entity.ProductStatus) bool {
	return status == entity.StatusInDistribution
}
