package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
)

func TestProfile_CanSee(t *testing.T) {
	c := &entity.Company{
		Name: "ACME",
		Responsibles: map[entity.Area]string{
			entity.AreaFiscal:  "ana",
			entity.AreaBilling: "bruno",
		},
	}

	root := &entity.Profile{ID: "r", Role: entity.RoleRoot}
	manager := &entity.Profile{ID: "m", Role: entity.RoleManager}
	assert.True(t, root.CanSee(c))
	assert.True(t, manager.CanSee(c))

	// Colaborador sin sector: cualquier área.
	assert.True(t, (&entity.Profile{ID: "bruno", Role: entity.RoleCollaborator}).CanSee(c))
	assert.False(t, (&entity.Profile{ID: "carla", Role: entity.RoleCollaborator}).CanSee(c))

	// Colaborador con sector: solo su área.
	assert.True(t, (&entity.Profile{ID: "ana", Role: entity.RoleCollaborator, Sector: "Fiscal"}).CanSee(c))
	assert.False(t, (&entity.Profile{ID: "ana", Role: entity.RoleCollaborator, Sector: "billing"}).CanSee(c))

	var nilProfile *entity.Profile
	assert.False(t, nilProfile.CanSee(c))
}

func TestProfile_CanAdministerUsers(t *testing.T) {
	assert.True(t, (&entity.Profile{Role: entity.RoleRoot}).CanAdministerUsers())
	assert.False(t, (&entity.Profile{Role: entity.RoleManager}).CanAdministerUsers())
	assert.True(t, (&entity.Profile{Role: entity.RoleManager, CanManageUsers: true}).CanAdministerUsers())
	assert.False(t, (&entity.Profile{Role: entity.RoleCollaborator, CanManageUsers: true}).CanAdministerUsers())
}

func TestCompany_CloneEsProfunda(t *testing.T) {
	v := decimal.NewFromInt(10)
	c := entity.Company{
		Name:          "ACME",
		HonoraryValue: &v,
		Responsibles:  map[entity.Area]string{entity.AreaFiscal: "ana"},
		Alerts:        []string{"a"},
	}
	cp := c.Clone()
	cp.Responsibles[entity.AreaFiscal] = "otro"
	cp.Alerts[0] = "b"
	*cp.HonoraryValue = decimal.NewFromInt(99)

	assert.Equal(t, "ana", c.Responsibles[entity.AreaFiscal])
	assert.Equal(t, "a", c.Alerts[0])
	assert.True(t, c.HonoraryValue.Equal(decimal.NewFromInt(10)))
}

func TestCompany_TaxID(t *testing.T) {
	assert.Equal(t, "123", (&entity.Company{CNPJ: "123", CPF: "456"}).TaxID())
	assert.Equal(t, "456", (&entity.Company{CPF: "456"}).TaxID())
}
