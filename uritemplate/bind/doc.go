// Package bind constructs template bindings from external sources:
// YAML documents, files, and command-line "name=expression"
// assignments evaluated with expr-lang.
//
// The package converts decoded data into the three binding value
// shapes the codec understands. Scalars bind as atoms, sequences as
// lists, and mappings as ordered key sets; anything nested deeper is
// rejected rather than silently flattened.
package bind
