// Package env handles variable resolution for webreq templates.
//
// It provides functionality for:
//   - Loading .env files into the process environment
//   - Interpolation of {{$VAR}} environment references
//   - Built-in function calls such as {{uuid()}} or {{timestamp()}}
//   - Namespace variables for {{name}} placeholders, set with SetVariables
package env
