package meta

import "github.com/LinuxEntrepreneur/pentaho-mongodb-plugin/pkg/validate"

// Check runs the advisory topology checks for this step.
func (m *OutputMeta) Check(env validate.Env, cat validate.Catalog) []validate.Result {
	return validate.Check(env, cat)
}

var _ validate.Validatable = (*OutputMeta)(nil)
