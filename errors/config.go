package errors

import (
	"errors"
	"fmt"
)

var ErrConfig = errors.New("configuration error")

type ConfigReason string

const (
	ReasonMissingPrimaryKey     ConfigReason = "missing_primary_key"
	ReasonDuplicateColumn       ConfigReason = "duplicate_destination_column"
	ReasonDuplicateSourceField  ConfigReason = "duplicate_source_field"
	ReasonDanglingConditionRef  ConfigReason = "dangling_condition_reference"
	ReasonDuplicateEdge         ConfigReason = "duplicate_edge"
	ReasonUnknownTransform      ConfigReason = "unknown_transform"
	ReasonUnresolvedSource      ConfigReason = "unresolved_source"
	ReasonUnresolvedDestination ConfigReason = "unresolved_destination"
	ReasonMissingMappings       ConfigReason = "missing_field_mappings"
	ReasonMissingTargetTable    ConfigReason = "missing_target_table"
	ReasonInvalidStep           ConfigReason = "invalid_step"
)

// ConfigError is fatal to a save: it is produced at compile time and never at
// run time.
type ConfigError struct {
	Reason ConfigReason
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Reason, e.Detail)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func NewConfigError(reason ConfigReason, format string, args ...any) error {
	return &ConfigError{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
}
