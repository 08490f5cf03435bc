package domain

import "fmt"

// ConfigErrorKind distinguishes the fatal configuration failures.
type ConfigErrorKind string

const (
	ConfigErrorUnknownTenant          ConfigErrorKind = "unknown_tenant"
	ConfigErrorUnknownDataType        ConfigErrorKind = "unknown_data_type"
	ConfigErrorUnknownMappingTarget   ConfigErrorKind = "unknown_mapping_target"
	ConfigErrorDuplicateMappingTarget ConfigErrorKind = "duplicate_mapping_target"
)

// ConfigurationError is the only error class that aborts a pipeline run before
// a report is produced; without resolved configuration there is nothing to
// validate.
type ConfigurationError struct {
	Kind      ConfigErrorKind
	CompanyID string
	DataType  DataType
	Detail    string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error (%s) for company %q", e.Kind, e.CompanyID)
	if e.DataType != "" {
		msg += fmt.Sprintf(", data type %q", e.DataType)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
