// Package types defines the two value trees exchanged across the bridge and
// the bridge error taxonomy.
//
// Term is the caller-native dynamic grammar (numbers, strings, sequences,
// maps, named tags) used for both function arguments and type declarations.
// Value is the execution engine's typed tree. Both are closed unions over
// finite trees; the codec package converts between them.
package types
