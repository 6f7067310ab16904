/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package errors

import "strings"

// Errors collects multiple errors and flattens them into a single error value.
type Errors []error

// Err returns nil when the list holds no non-nil error.
func (e Errors) Err() error {
	var list Errors
	for _, err := range e {
		if err != nil {
			list = append(list, err)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return &MultiError{errors: list}
}

type MultiError struct {
	errors Errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	parts := make([]string, 0, len(m.errors))
	for _, err := range m.errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (m *MultiError) Errors() []error {
	return m.errors
}
