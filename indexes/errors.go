package indexes

// ConfigError reports an invalid index definition: a missing name where one
// is required, mutually exclusive inputs, cardinality mismatches or a
// malformed explicit name.
type ConfigError string

// Error implements error
func (err ConfigError) Error() string {
	return string(err)
}

// MalformedExpressionError reports an indexed expression whose ordering and
// collation wrappers cannot be arranged into canonical form.
type MalformedExpressionError string

// Error implements error
func (err MalformedExpressionError) Error() string {
	return string(err)
}
