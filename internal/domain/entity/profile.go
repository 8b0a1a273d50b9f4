package entity

import (
	"strings"
	"time"
)

// Roles válidos para Profile.
const (
	RoleRoot         = "root"
	RoleManager      = "manager"
	RoleCollaborator = "collaborator"
)

// ValidRole informa si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleRoot, RoleManager, RoleCollaborator:
		return true
	}
	return false
}

// Profile perfil de un usuario del escritorio. La identidad y las credenciales
// viven en el servicio de autenticación externo; aquí solo rol y permisos.
type Profile struct {
	ID             string
	Email          string
	Name           string
	Role           string // root, manager, collaborator
	Sector         string // área interna (fiscal, personnel, accounting, billing); vacío = sin sector
	CanManageUsers bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPrivileged root y manager ven todas las empresas y los honorarios.
func (p *Profile) IsPrivileged() bool {
	return p != nil && (p.Role == RoleRoot || p.Role == RoleManager)
}

// CanAdministerUsers root siempre; manager solo con delegación.
func (p *Profile) CanAdministerUsers() bool {
	if p == nil {
		return false
	}
	return p.Role == RoleRoot || (p.Role == RoleManager && p.CanManageUsers)
}

// Area devuelve el área interna del profile, o "" si el sector no es un área conocida.
func (p *Profile) Area() Area {
	if p == nil {
		return ""
	}
	a := Area(strings.ToLower(strings.TrimSpace(p.Sector)))
	if !ValidArea(a) {
		return ""
	}
	return a
}

// CanSee aplica el filtro de visibilidad por rol sobre una empresa.
// Un colaborador con sector ve las empresas donde es el responsable de su área;
// sin sector, las empresas donde es responsable de cualquier área.
func (p *Profile) CanSee(c *Company) bool {
	if p == nil || c == nil {
		return false
	}
	if p.IsPrivileged() {
		return true
	}
	if a := p.Area(); a != "" {
		return p.ID != "" && c.Responsible(a) == p.ID
	}
	return c.HasResponsible(p.ID)
}
