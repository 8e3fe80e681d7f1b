package provider

import "errors"

// ErrSourceLoad indicates the target file could not be located or parsed.
// Load failures are fatal to a scan: no partial symbol table is kept.
var ErrSourceLoad = errors.New("source load failed")

// ErrDuplicateDeclaration indicates a declaration in the loaded file collides
// with a name already registered in the provider's namespace (including the
// seeded builtin baseline).
var ErrDuplicateDeclaration = errors.New("duplicate declaration")
