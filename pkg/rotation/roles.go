package rotation

import (
	"fmt"
	"os"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"gopkg.in/yaml.v3"
)

// DefaultRoles returns the standard service rotation in priority order: the
// lead vocal first, then the two sub-vocal slots (shared pool, mutually
// exclusive on a date), then the independent instrument and support roles.
// Order matters: earlier roles consume people before later roles pick.
func DefaultRoles() []models.RoleDefinition {
	return []models.RoleDefinition{
		{Name: "vocal_main", Pool: "vocal_main"},
		{Name: "vocal_sub1", Pool: "vocal_sub", Excludes: []string{"vocal_sub2"}},
		{Name: "vocal_sub2", Pool: "vocal_sub", Excludes: []string{"vocal_sub1"}},
		{Name: "piano", Pool: "piano"},
		{Name: "drum", Pool: "drum"},
		{Name: "bass", Pool: "bass"},
		{Name: "pa", Pool: "pa"},
		{Name: "ppt", Pool: "ppt"},
	}
}

// LoadRoles reads role definitions from a YAML file. The file holds a list
// of {name, pool, excludes} entries in priority order.
func LoadRoles(path string) ([]models.RoleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	var doc struct {
		Roles []models.RoleDefinition `yaml:"roles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	if err := ValidateRoles(doc.Roles); err != nil {
		return nil, err
	}
	return doc.Roles, nil
}

// ValidateRoles rejects duplicate role names, empty pools, and exclusion
// references to roles that do not exist.
func ValidateRoles(roles []models.RoleDefinition) error {
	if len(roles) == 0 {
		return fmt.Errorf("no roles defined")
	}
	names := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r.Name == "" {
			return fmt.Errorf("role with empty name")
		}
		if r.Pool == "" {
			return fmt.Errorf("role %q has no qualification pool", r.Name)
		}
		if names[r.Name] {
			return fmt.Errorf("duplicate role %q", r.Name)
		}
		names[r.Name] = true
	}
	for _, r := range roles {
		for _, ex := range r.Excludes {
			if !names[ex] {
				return fmt.Errorf("role %q excludes unknown role %q", r.Name, ex)
			}
		}
	}
	return nil
}

// RoleNames returns the role names in priority order.
func RoleNames(roles []models.RoleDefinition) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}
