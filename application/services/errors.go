package services

import (
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

// ExampleErrorDomain is the error domain for example use cases.
const ExampleErrorDomain errs.Domain = "example"

// Error codes raised by the example service.
const (
	CodeExampleNotFound         errs.ErrorCode = "EXAMPLE_NOT_FOUND"
	CodeExampleValidationFailed errs.ErrorCode = "EXAMPLE_VALIDATION_FAILED"
	CodeExampleConflict         errs.ErrorCode = "EXAMPLE_CONFLICT"
	CodeExampleUnauthorized     errs.ErrorCode = "EXAMPLE_UNAUTHORIZED"
	CodeExampleAlreadyExists    errs.ErrorCode = "EXAMPLE_ALREADY_EXISTS"
)

var exampleErrors = errs.NewCatalog(ExampleErrorDomain, map[errs.ErrorCode]string{
	CodeExampleNotFound:         "Example '{id}' not found",
	CodeExampleValidationFailed: "Validation failed: {reason}",
	CodeExampleConflict:         "Example '{name}' already exists",
	CodeExampleUnauthorized:     "You are not authorized to access example '{id}'",
	CodeExampleAlreadyExists:    "Example with name '{name}' already exists",
})
