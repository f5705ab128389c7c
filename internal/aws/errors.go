// Package aws provides shared AWS error classification and polling utilities.
package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// GetAWSErrorCode extracts the error code from an AWS error
func GetAWSErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return ""
}

// GetAWSErrorMessage extracts the error message from an AWS error
func GetAWSErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}

	return err.Error()
}

// WrapAWSError wraps an AWS error with additional context
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	errorCode := GetAWSErrorCode(err)
	errorMessage := GetAWSErrorMessage(err)

	if errorCode != "" {
		return fmt.Errorf("%s failed: [%s] %s", operation, errorCode, errorMessage)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
