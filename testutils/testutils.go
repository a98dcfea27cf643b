// Package testutils provides small helpers shared by the tests: a generic
// test case structure, error matchers and temporary YAML file handling.
package testutils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCase represents a generic test case with expected result type T and
// test data type D. Expected stays empty when an error is anticipated;
// Error then checks the returned error instead.
type TestCase[T any, D any] struct {
	Name     string
	Expected T
	Data     D
	Error    func(*testing.T, error)
}

// F returns a test function running the case against f, suitable for t.Run().
func (tc TestCase[T, D]) F(f func(D) (T, error)) func(t *testing.T) {
	return func(t *testing.T) {
		actual, err := f(tc.Data)

		if tc.Error != nil {
			tc.Error(t, err)
		} else {
			require.NoError(t, err)
			require.Equal(t, tc.Expected, actual)
		}
	}
}

// ConfigTestData holds configuration input for a test case,
// as YAML file content and/or environment variables.
type ConfigTestData struct {
	Yaml string
	Env  map[string]string
}

// ErrorContains returns a check that the error message contains the expected substring.
func ErrorContains(expected string) func(t *testing.T, err error) {
	return func(t *testing.T, err error) {
		require.ErrorContains(t, err, expected)
	}
}

// ErrorIs returns a check that the error matches the expected error.
func ErrorIs(expected error) func(t *testing.T, err error) {
	return func(t *testing.T, err error) {
		require.ErrorIs(t, err, expected)
	}
}

// WithYAMLFile writes yaml to a temporary file, hands the file to f and
// removes it afterwards.
func WithYAMLFile(t *testing.T, yaml string, f func(file *os.File)) {
	file, err := os.CreateTemp("", "*.yaml")
	require.NoError(t, err)

	defer func(name string) {
		_ = os.Remove(name)
	}(file.Name())

	_, err = file.WriteString(yaml)
	require.NoError(t, err)

	require.NoError(t, file.Close())

	f(file)
}
