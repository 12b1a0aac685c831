package entity

// Roles reconocidos en el token.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCashier    = "cajero"
)

// Caller identidad del solicitante resuelta por el colaborador de autenticación.
// El núcleo confía en su contenido.
type Caller struct {
	TenantID string
	UserID   string
	Role     string
	BranchID string // vacío si el usuario no tiene sucursal asignada
}

// HasBranch indica si el usuario tiene sucursal asignada.
func (c Caller) HasBranch() bool { return c.BranchID != "" }

// IsCashier indica si el rol es cajero.
func (c Caller) IsCashier() bool { return c.Role == RoleCashier }

// KnownRole indica si el rol es uno de los reconocidos.
func (c Caller) KnownRole() bool {
	switch c.Role {
	case RoleAdmin, RoleSupervisor, RoleCashier:
		return true
	}
	return false
}

// CanAccessSession aplica la visibilidad por rol: el cajero solo ve las suyas, el supervisor
// con sucursal solo las de su sucursal y el admin (o supervisor sin sucursal) todo el tenant.
func (c Caller) CanAccessSession(s *CashSession) bool {
	switch c.Role {
	case RoleCashier:
		return s.UserID == c.UserID
	case RoleSupervisor:
		return !c.HasBranch() || s.BranchID == c.BranchID || s.UserID == c.UserID
	case RoleAdmin:
		return true
	}
	return false
}

// CanAccessSale misma regla que CanAccessSession aplicada al cajero de la venta.
func (c Caller) CanAccessSale(s *Sale) bool {
	switch c.Role {
	case RoleCashier:
		return s.CashierID == c.UserID
	case RoleSupervisor:
		return !c.HasBranch() || s.BranchID == c.BranchID || s.CashierID == c.UserID
	case RoleAdmin:
		return true
	}
	return false
}
