package services

import (
	model "github.com/darksagae/pulse/models"
)

// departmentRoutes maps each document type to the department that owns its
// review. Types outside the table fall through to the default.
var departmentRoutes = map[string]string{
	model.TypeNationalID:           model.DeptNira,
	model.TypeDriversLicense:       model.DeptNira,
	model.TypeBirthCertificate:     model.DeptNira,
	model.TypePassport:             model.DeptImmigration,
	model.TypeVisa:                 model.DeptImmigration,
	model.TypeMarriageCertificate:  model.DeptUrsb,
	model.TypeBusinessRegistration: model.DeptUrsb,
	model.TypeTaxCertificate:       model.DeptFinance,
	model.TypeHealthCertificate:    model.DeptHealth,
	model.TypeOther:                model.DeptNira,
	model.TypeUnknown:              model.DeptNira,
}

// DetermineDepartment resolves the owning department for a document type. It is
// total: unmapped types resolve to NIRA rather than erroring, because routing
// must never block a submission.
func DetermineDepartment(documentType string) string {
	if dept, ok := departmentRoutes[documentType]; ok {
		return dept
	}
	return model.DeptNira
}

// IsKnownDepartment reports whether a department code is one of the known
// departments.
func IsKnownDepartment(departmentID string) bool {
	for _, dept := range model.Departments {
		if dept == departmentID {
			return true
		}
	}
	return false
}
