package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownObjectType = errors.New("unknown object type")

// ObjectType is the kind of a warehouse object, rendered into SQL as-is
type ObjectType string

const (
	ObjectView             ObjectType = "VIEW"
	ObjectMaterializedView ObjectType = "MATERIALIZED VIEW"
	ObjectTable            ObjectType = "TABLE"
	ObjectSchema           ObjectType = "SCHEMA"
	ObjectDatabase         ObjectType = "DATABASE"
	ObjectWarehouse        ObjectType = "WAREHOUSE"
	ObjectRole             ObjectType = "ROLE"
	ObjectUser             ObjectType = "USER"
	ObjectShare            ObjectType = "SHARE"
	ObjectPipe             ObjectType = "PIPE"
	ObjectTask             ObjectType = "TASK"
	ObjectStage            ObjectType = "STAGE"
	ObjectFunction         ObjectType = "FUNCTION"
	ObjectStream           ObjectType = "STREAM"
)

// ObjectTypes lists every supported object type
var ObjectTypes = []ObjectType{
	ObjectView,
	ObjectMaterializedView,
	ObjectTable,
	ObjectSchema,
	ObjectDatabase,
	ObjectWarehouse,
	ObjectRole,
	ObjectUser,
	ObjectShare,
	ObjectPipe,
	ObjectTask,
	ObjectStage,
	ObjectFunction,
	ObjectStream,
}

func (t ObjectType) String() string {
	return string(t)
}

// Equal compares against a raw string, ignoring case
func (t ObjectType) Equal(other string) bool {
	return string(t) == strings.ToUpper(other)
}

// ParseObjectType resolves a raw name to an ObjectType. Underscores are
// accepted in place of spaces, so MATERIALIZED_VIEW works in URLs and flags.
func ParseObjectType(s string) (ObjectType, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
	for _, t := range ObjectTypes {
		if t.Equal(name) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownObjectType, s)
}
