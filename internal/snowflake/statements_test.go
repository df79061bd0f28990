package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snowflake-admin/internal/model"
)

func TestObjectStatements(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"use warehouse", useStatement(model.ObjectWarehouse, "COMPUTE_WH"), "USE WAREHOUSE COMPUTE_WH"},
		{"truncate", truncateTableStatement("orders"), "TRUNCATE TABLE orders"},
		{"drop table", dropStatement("orders", model.ObjectTable), "DROP TABLE IF EXISTS orders"},
		{"drop materialized view", dropStatement("mv_orders", model.ObjectMaterializedView), "DROP MATERIALIZED VIEW IF EXISTS mv_orders"},
		{"create schema", createContainerStatement(model.ObjectSchema, "raw", false), "CREATE SCHEMA IF NOT EXISTS raw"},
		{"replace schema", createContainerStatement(model.ObjectSchema, "raw", true), "CREATE OR REPLACE SCHEMA raw"},
		{"create database", createContainerStatement(model.ObjectDatabase, "analytics", false), "CREATE DATABASE IF NOT EXISTS analytics"},
		{"replace database", createContainerStatement(model.ObjectDatabase, "analytics", true), "CREATE OR REPLACE DATABASE analytics"},
		{"insert", insertStatement("orders", []string{"id", "note"}, 2), "INSERT INTO orders (id, note) VALUES (?, ?), (?, ?)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.got, tc.name)
	}
}

func TestUserStatements(t *testing.T) {
	spec := UserSpec{Name: "jdoe", Password: "Tmp#1234", Email: "jdoe@example.com", Role: "ANALYST"}
	assert.Equal(t,
		"CREATE USER IF NOT EXISTS jdoe PASSWORD = 'Tmp#1234' DEFAULT_ROLE = ANALYST MUST_CHANGE_PASSWORD = TRUE EMAIL = 'jdoe@example.com'",
		createUserStatement(spec))

	spec.DefaultWarehouse = "COMPUTE_WH"
	assert.Equal(t,
		"CREATE USER IF NOT EXISTS jdoe PASSWORD = 'Tmp#1234' DEFAULT_ROLE = ANALYST MUST_CHANGE_PASSWORD = TRUE EMAIL = 'jdoe@example.com' DEFAULT_WAREHOUSE = COMPUTE_WH",
		createUserStatement(spec))

	assert.Equal(t, "DROP USER IF EXISTS jdoe", dropUserStatement("jdoe"))
	assert.Equal(t, "ALTER USER IF EXISTS jdoe RESET PASSWORD", resetPasswordStatement("jdoe"))
	assert.Equal(t, "GRANT ROLE ANALYST TO USER jdoe", grantRoleToUserStatement("jdoe", "ANALYST"))
	assert.Equal(t, "REVOKE ROLE ANALYST FROM USER jdoe", revokeRoleFromUserStatement("jdoe", "ANALYST"))
	assert.Equal(t, "DESCRIBE USER jdoe", describeUserStatement("jdoe"))
}

func TestRoleStatements(t *testing.T) {
	assert.Equal(t, "CREATE ROLE IF NOT EXISTS ANALYST", createRoleStatement(RoleSpec{Name: "ANALYST"}))
	assert.Equal(t,
		"CREATE ROLE IF NOT EXISTS ANALYST WITH TAG (cost_center = 'bi', owner = 'data') COMMENT = 'read only'",
		createRoleStatement(RoleSpec{
			Name:    "ANALYST",
			Comment: "read only",
			Tags:    map[string]string{"owner": "data", "cost_center": "bi"},
		}))
	assert.Equal(t, "DROP ROLE IF EXISTS ANALYST", dropRoleStatement("ANALYST"))
	assert.Equal(t, "GRANT SELECT ON ALL TABLES IN SCHEMA analytics.public TO ROLE ANALYST",
		grantOnAllTablesStatement("SELECT", "analytics.public", "ANALYST"))
	assert.Equal(t, "GRANT USAGE ON WAREHOUSE COMPUTE_WH TO ROLE ANALYST",
		grantPrivilegeStatement("USAGE", "COMPUTE_WH", model.ObjectWarehouse, "ANALYST"))
	assert.Equal(t, "GRANT IMPORTED PRIVILEGES ON DATABASE SNOWFLAKE TO ROLE ANALYST",
		grantImportedPrivilegesStatement("SNOWFLAKE", "ANALYST"))
	assert.Equal(t, "REVOKE USAGE ON WAREHOUSE COMPUTE_WH FROM ROLE ANALYST",
		revokePrivilegeStatement("USAGE", "COMPUTE_WH", model.ObjectWarehouse, "ANALYST"))
}

func TestStatementKind(t *testing.T) {
	cases := map[string]string{
		"CREATE USER IF NOT EXISTS jdoe PASSWORD = 'x'": "CREATE USER",
		"create or replace schema raw":                  "CREATE SCHEMA",
		"CREATE MATERIALIZED VIEW mv AS SELECT 1":       "CREATE MATERIALIZED VIEW",
		"SHOW WAREHOUSES":                               "SHOW WAREHOUSES",
		"  select * from t":                             "SELECT",
		"GRANT ROLE r TO USER u":                        "GRANT",
		"USE DATABASE analytics;":                       "USE DATABASE",
		"":                                              "EMPTY",
	}
	for in, want := range cases {
		assert.Equal(t, want, statementKind(in), in)
	}
}
