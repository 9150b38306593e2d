// Package codepoint decodes and encodes UTF-8 strictly.
//
// Every code point produced by Decode comes from exactly one well-formed
// byte sequence of the input, consumed in order. Malformed input is
// rejected with an *InvalidEncodingError carrying the byte offset and a
// Reason; nothing is replaced with U+FFFD.
package codepoint
