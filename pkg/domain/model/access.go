package model

import (
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// ParseAccessLevel maps the CLI access-level names to GitLab permission
// values. "devel" is kept as an alias of "developer" for compatibility
// with existing class scripts.
func ParseAccessLevel(name string) (gitlab.AccessLevelValue, error) {
	switch name {
	case "guest":
		return gitlab.GuestPermissions, nil
	case "reporter":
		return gitlab.ReporterPermissions, nil
	case "devel", "developer":
		return gitlab.DeveloperPermissions, nil
	case "maintainer":
		return gitlab.MaintainerPermissions, nil
	default:
		return gitlab.NoPermissions, goerr.New("unsupported access level",
			goerr.V("level", name))
	}
}
