package database

import (
	"database/sql"
	"strconv"
	"strings"

	"snowflake-admin/internal/model"
)

// SnowflakeTypeMapper handles Snowflake-specific type mappings
type SnowflakeTypeMapper struct{}

// NewSnowflakeTypeMapper creates a new Snowflake type mapper
func NewSnowflakeTypeMapper() *SnowflakeTypeMapper {
	return &SnowflakeTypeMapper{}
}

// getBaseType strips precision and scale, e.g. NUMBER(38,0) -> NUMBER
func getBaseType(snowflakeType string) string {
	upperType := strings.ToUpper(strings.TrimSpace(snowflakeType))
	if idx := strings.Index(upperType, "("); idx != -1 {
		upperType = upperType[:idx]
	}
	return strings.TrimSpace(upperType)
}

// MapSnowflakeTypeToStandardType maps Snowflake data types to standard types
func (m *SnowflakeTypeMapper) MapSnowflakeTypeToStandardType(snowflakeType string) model.StandardizedType {
	switch getBaseType(snowflakeType) {
	case "FIXED", "NUMBER", "DECIMAL", "NUMERIC":
		if !strings.Contains(snowflakeType, "(") || strings.HasSuffix(strings.ReplaceAll(snowflakeType, " ", ""), ",0)") {
			return model.TypeInteger
		}
		return model.TypeDecimal
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT":
		return model.TypeInteger
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8":
		return model.TypeFloat
	case "DOUBLE", "DOUBLE PRECISION":
		return model.TypeDouble
	case "TEXT", "VARCHAR", "CHAR", "CHARACTER", "STRING":
		return model.TypeString
	case "BOOLEAN":
		return model.TypeBoolean
	case "DATE":
		return model.TypeDate
	case "TIME":
		return model.TypeTime
	case "TIMESTAMP", "TIMESTAMP_NTZ", "DATETIME":
		return model.TypeTimestamp
	case "TIMESTAMP_LTZ", "TIMESTAMP_TZ":
		return model.TypeTimestampWithZone
	case "VARIANT", "OBJECT":
		return model.TypeVariant
	case "ARRAY":
		return model.TypeArray
	case "BINARY", "VARBINARY":
		return model.TypeBinary
	case "GEOGRAPHY", "GEOMETRY":
		return model.TypeGeography
	default:
		return model.TypeUnknown
	}
}

// ColumnInfo builds result column metadata from the driver column type
func (m *SnowflakeTypeMapper) ColumnInfo(ct *sql.ColumnType) model.ColumnInfo {
	nullable, _ := ct.Nullable()
	original := ct.DatabaseTypeName()
	return model.ColumnInfo{
		Name:     ct.Name(),
		Type:     m.MapSnowflakeTypeToStandardType(original),
		Original: original,
		Nullable: nullable,
	}
}

// ConvertSnowflakeValue normalizes a scanned driver value. The driver hands
// most values back as strings; numbers and booleans are parsed when the column
// type says so and text is never left as raw bytes.
func (m *SnowflakeTypeMapper) ConvertSnowflakeValue(value any, snowflakeType string) any {
	if value == nil {
		return nil
	}
	if b, ok := value.([]byte); ok {
		if m.MapSnowflakeTypeToStandardType(snowflakeType) == model.TypeBinary {
			return b
		}
		value = string(b)
	}

	s, ok := value.(string)
	if !ok {
		return value
	}

	switch m.MapSnowflakeTypeToStandardType(snowflakeType) {
	case model.TypeInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case model.TypeDecimal, model.TypeFloat, model.TypeDouble:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case model.TypeBoolean:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
