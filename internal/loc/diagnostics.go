package loc

// DiagnosticCode is a stable, closed set of specific diagnostics raised
// across the pipeline. Families are grouped by the thousands digit to mirror
// the Kind they belong to.
type DiagnosticCode int

const (
	// Lexical (1000s)
	ERROR_UNTERMINATED_STRING  DiagnosticCode = 1000
	ERROR_UNTERMINATED_COMMENT DiagnosticCode = 1001
	ERROR_BAD_CHARACTER        DiagnosticCode = 1002
	ERROR_UNBALANCED_BRACE     DiagnosticCode = 1003
	ERROR_LEADING_BOM          DiagnosticCode = 1004

	// Syntactic (2000s)
	ERROR_UNEXPECTED_TOKEN  DiagnosticCode = 2000
	ERROR_UNCLOSED_CONSTRUCT DiagnosticCode = 2001
	ERROR_MALFORMED_DIRECTIVE DiagnosticCode = 2002
	ERROR_UNBALANCED_STACK  DiagnosticCode = 2003

	// Semantic (3000s)
	ERROR_DUPLICATE_REGISTRATION DiagnosticCode = 3000
	ERROR_UNKNOWN_REFERENCE      DiagnosticCode = 3001
	ERROR_INHERITANCE_CYCLE      DiagnosticCode = 3002
	ERROR_FORBIDDEN_BY_CONSTRAINT DiagnosticCode = 3003
	ERROR_ARITY_MISMATCH         DiagnosticCode = 3004
	ERROR_AMBIGUOUS_REFERENCE    DiagnosticCode = 3005

	// Import resolution (4000s)
	ERROR_IMPORT_NOT_FOUND  DiagnosticCode = 4000
	ERROR_IMPORT_HOST_ERROR DiagnosticCode = 4001

	// Configuration (5000s)
	ERROR_UNKNOWN_CONFIGURATION DiagnosticCode = 5000
	ERROR_CONFLICTING_OPTION    DiagnosticCode = 5001

	// Warnings (9000s), promoted to errors under strict mode
	WARNING_UNUSED_PARAMETER DiagnosticCode = 9000
	WARNING_EMPTY_BLOCK      DiagnosticCode = 9001
)
