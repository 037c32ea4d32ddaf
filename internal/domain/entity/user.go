package entity

import "time"

// Roles válidos para User dentro de la cadena de suministro.
const (
	RoleAdmin            = "admin"
	RoleManufacturer     = "manufacturer"
	RoleSupplier         = "supplier"
	RoleDistributor      = "distributor"
	RoleCustomer         = "customer"
	RoleQualityInspector = "quality-inspector"
)

// Estados de verificación de cuenta. Los roles operativos (manufacturer,
// supplier, distributor, quality-inspector) entran en pending hasta que un
// admin los apruebe.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// User representa un usuario del sistema. El motor de ciclo de vida solo
// consume {ID, Role}; el resto es para autenticación y presentación.
type User struct {
	ID                 string
	Username           string
	Email              string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Role               string
	Company            string // nombre de la empresa, texto libre
	VerificationStatus string // pending, verified, rejected
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidRole reporta si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManufacturer, RoleSupplier, RoleDistributor, RoleCustomer, RoleQualityInspector:
		return true
	}
	return false
}

// RequiresVerification indica si el rol debe ser aprobado por un admin antes
// de operar sobre productos.
func RequiresVerification(role string) bool {
	switch role {
	case RoleManufacturer, RoleSupplier, RoleDistributor, RoleQualityInspector:
		return true
	}
	return false
}

// DisplayName devuelve el nombre a mostrar: empresa si existe, si no username.
func (u *User) DisplayName() string {
	if u.Company != "" {
		return u.Company
	}
	return u.Username
}
