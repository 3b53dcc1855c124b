package services

import (
	"testing"

	model "github.com/darksagae/pulse/models"
	"github.com/stretchr/testify/assert"
)

func TestDetermineDepartment(t *testing.T) {
	tests := []struct {
		docType string
		want    string
	}{
		{model.TypeNationalID, model.DeptNira},
		{model.TypeDriversLicense, model.DeptNira},
		{model.TypeBirthCertificate, model.DeptNira},
		{model.TypePassport, model.DeptImmigration},
		{model.TypeVisa, model.DeptImmigration},
		{model.TypeMarriageCertificate, model.DeptUrsb},
		{model.TypeBusinessRegistration, model.DeptUrsb},
		{model.TypeTaxCertificate, model.DeptFinance},
		{model.TypeHealthCertificate, model.DeptHealth},
		{model.TypeOther, model.DeptNira},
		{model.TypeUnknown, model.DeptNira},
	}
	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineDepartment(tt.docType))
		})
	}
}

func TestDetermineDepartment_UnmappedTypeDefaultsToNira(t *testing.T) {
	assert.Equal(t, model.DeptNira, DetermineDepartment("certificate_of_no_impediment"))
	assert.Equal(t, model.DeptNira, DetermineDepartment(""))
}

func TestIsKnownDepartment(t *testing.T) {
	for _, dept := range model.Departments {
		assert.True(t, IsKnownDepartment(dept))
	}
	assert.False(t, IsKnownDepartment("treasury"))
	assert.False(t, IsKnownDepartment(""))
}
