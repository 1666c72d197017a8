// Package builtin provides the functions available inside {{...}}
// placeholders of namespace files.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current UTC time in RFC 3339
//   - date(layout): current UTC date, layout defaults to 2006-01-02
//   - timestamp(), timestampMs(): Unix time in seconds or milliseconds
//   - random(min, max): random integer in the closed range
//   - randomString(length): random alphanumeric string
//   - base64(value), urlEncode(value)
package builtin
