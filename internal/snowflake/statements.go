package snowflake

import (
	"fmt"
	"sort"
	"strings"

	"snowflake-admin/internal/model"
)

// Statements are assembled by plain interpolation. Names and values are not
// quoted or escaped, so callers must only pass trusted input.

func useStatement(objectType model.ObjectType, name string) string {
	return fmt.Sprintf("USE %s %s", objectType, name)
}

func truncateTableStatement(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func dropStatement(name string, objectType model.ObjectType) string {
	return fmt.Sprintf("DROP %s IF EXISTS %s", objectType, name)
}

func createContainerStatement(objectType model.ObjectType, name string, replace bool) string {
	if replace {
		return fmt.Sprintf("CREATE OR REPLACE %s %s", objectType, name)
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s", objectType, name)
}

func insertStatement(table string, columns []string, rows int) string {
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
	}
	return b.String()
}

// UserSpec describes a user to create
type UserSpec struct {
	Name             string `json:"name" validate:"required"`
	Password         string `json:"password" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Role             string `json:"role" validate:"required"`
	DefaultWarehouse string `json:"defaultWarehouse,omitempty"`
}

func createUserStatement(spec UserSpec) string {
	stmt := fmt.Sprintf(
		"CREATE USER IF NOT EXISTS %s PASSWORD = '%s' DEFAULT_ROLE = %s MUST_CHANGE_PASSWORD = TRUE EMAIL = '%s'",
		spec.Name, spec.Password, spec.Role, spec.Email,
	)
	if spec.DefaultWarehouse != "" {
		stmt += " DEFAULT_WAREHOUSE = " + spec.DefaultWarehouse
	}
	return stmt
}

func dropUserStatement(name string) string {
	return fmt.Sprintf("DROP USER IF EXISTS %s", name)
}

func resetPasswordStatement(name string) string {
	return fmt.Sprintf("ALTER USER IF EXISTS %s RESET PASSWORD", name)
}

func grantRoleToUserStatement(user, role string) string {
	return fmt.Sprintf("GRANT ROLE %s TO USER %s", role, user)
}

func revokeRoleFromUserStatement(user, role string) string {
	return fmt.Sprintf("REVOKE ROLE %s FROM USER %s", role, user)
}

func describeUserStatement(name string) string {
	return fmt.Sprintf("DESCRIBE USER %s", name)
}

// RoleSpec describes a role to create
type RoleSpec struct {
	Name    string            `json:"name" validate:"required"`
	Comment string            `json:"comment,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
}

func createRoleStatement(spec RoleSpec) string {
	stmt := "CREATE ROLE IF NOT EXISTS " + spec.Name
	if len(spec.Tags) > 0 {
		names := make([]string, 0, len(spec.Tags))
		for name := range spec.Tags {
			names = append(names, name)
		}
		sort.Strings(names)

		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = fmt.Sprintf("%s = '%s'", name, spec.Tags[name])
		}
		stmt += " WITH TAG (" + strings.Join(pairs, ", ") + ")"
	}
	if spec.Comment != "" {
		stmt += fmt.Sprintf(" COMMENT = '%s'", spec.Comment)
	}
	return stmt
}

func dropRoleStatement(name string) string {
	return fmt.Sprintf("DROP ROLE IF EXISTS %s", name)
}

func grantOnAllTablesStatement(privilege, schema, role string) string {
	return fmt.Sprintf("GRANT %s ON ALL TABLES IN SCHEMA %s TO ROLE %s", privilege, schema, role)
}

func grantPrivilegeStatement(privilege, objectName string, objectType model.ObjectType, role string) string {
	return fmt.Sprintf("GRANT %s ON %s %s TO ROLE %s", privilege, objectType, objectName, role)
}

func grantImportedPrivilegesStatement(database, role string) string {
	return fmt.Sprintf("GRANT IMPORTED PRIVILEGES ON DATABASE %s TO ROLE %s", database, role)
}

func revokePrivilegeStatement(privilege, objectName string, objectType model.ObjectType, role string) string {
	return fmt.Sprintf("REVOKE %s ON %s %s FROM ROLE %s", privilege, objectType, objectName, role)
}

// verbs whose object keyword is worth reporting alongside them
var kindVerbs = map[string]bool{
	"CREATE": true, "DROP": true, "ALTER": true, "SHOW": true,
	"USE": true, "DESCRIBE": true, "DESC": true, "TRUNCATE": true,
}

// modifiers skipped when looking for the object keyword
var kindModifiers = map[string]bool{
	"OR": true, "REPLACE": true, "IF": true, "NOT": true, "EXISTS": true,
	"TEMPORARY": true, "TRANSIENT": true, "SECURE": true,
}

// statementKind summarizes a statement for logs and metrics, e.g.
// "CREATE USER". It never includes names or values.
func statementKind(stmt string) string {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) == 0 {
		return "EMPTY"
	}
	verb := strings.TrimSuffix(fields[0], ";")
	if !kindVerbs[verb] {
		return verb
	}
	for _, f := range fields[1:] {
		f = strings.TrimSuffix(f, ";")
		if kindModifiers[f] {
			continue
		}
		if f == "MATERIALIZED" {
			return verb + " MATERIALIZED VIEW"
		}
		return verb + " " + f
	}
	return verb
}
